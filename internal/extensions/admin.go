package extensions

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
)

// Admin serves read-only views of the application registries.
type Admin struct {
	Prefix string
}

type bundleView struct {
	Name        string   `json:"name"`
	ModulePath  string   `json:"module_path"`
	Description string   `json:"description,omitempty"`
	Blueprints  []string `json:"blueprints"`
	Commands    string   `json:"commands,omitempty"`
}

type registryEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// InitApp mounts the admin routes.
func (e *Admin) InitApp(a *app.Application) error {
	bp := &bundle.Blueprint{
		Name: AdminID,
		Routes: func(r gin.IRoutes) {
			r.GET("/bundles", func(c *gin.Context) { renderJSON(c, http.StatusOK, bundleViews(a)) })
			r.GET("/models", func(c *gin.Context) { renderJSON(c, http.StatusOK, modelViews(a.Models)) })
			r.GET("/serializers", func(c *gin.Context) { renderJSON(c, http.StatusOK, serializerViews(a.Serializers)) })
			r.GET("/extensions", func(c *gin.Context) { renderJSON(c, http.StatusOK, a.Extensions().IDs()) })
		},
	}
	return a.RegisterBlueprint(AdminID, bp, e.Prefix)
}

func bundleViews(a *app.Application) []bundleView {
	views := make([]bundleView, 0, len(a.BundleNames()))
	for _, b := range a.IterBundles() {
		v := bundleView{
			Name:        b.Name,
			ModulePath:  b.ModulePath,
			Description: b.Description,
			Blueprints:  make([]string, 0, len(b.Blueprints)),
			Commands:    b.CommandGroupName(),
		}
		for _, bp := range b.Blueprints {
			v.Blueprints = append(v.Blueprints, bp.Name)
		}
		views = append(views, v)
	}
	return views
}

func modelViews(models map[string]any) []registryEntry {
	out := make([]registryEntry, 0, len(models))
	for name, m := range models {
		out = append(out, registryEntry{Name: name, Type: fmt.Sprintf("%T", m)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func serializerViews(serializers map[string]bundle.Serializer) []registryEntry {
	out := make([]registryEntry, 0, len(serializers))
	for target, s := range serializers {
		out = append(out, registryEntry{Name: target, Type: fmt.Sprintf("%T", s)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func renderJSON(c *gin.Context, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}
