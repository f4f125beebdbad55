package bootstrap

import (
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/session"
)

// templatePattern selects template files under the template folder.
const templatePattern = "**/*.{html,tmpl}"

// Configure computes per-bundle migration locations, makes cfg the live
// configuration and installs the session and CSRF cookie hooks. Bundles
// must already be attached.
func Configure(a *app.Application, cfg *config.Config) error {
	cfg.Migrations.VersionLocations = VersionLocations(a, cfg.ProjectRoot)
	a.ApplyConfig(cfg)

	if err := configureTemplates(a, cfg); err != nil {
		return err
	}

	a.BeforeRequest(enableSessionTimeout)
	a.AfterRequest(setCSRFCookie(a))

	a.Logger.Debug("Application configured",
		zap.String("env", cfg.Env),
		zap.Int("version_locations", len(cfg.Migrations.VersionLocations)),
	)
	return nil
}

// VersionLocations pairs each attached bundle with its migrations folder,
// in bundle order.
func VersionLocations(a *app.Application, projectRoot string) []config.VersionLocation {
	bundles := a.IterBundles()
	locations := make([]config.VersionLocation, 0, len(bundles))
	for _, b := range bundles {
		locations = append(locations, config.VersionLocation{
			Bundle: b.Name,
			Path:   filepath.Join(projectRoot, filepath.FromSlash(b.ModulePath), "migrations"),
		})
	}
	return locations
}

// enableSessionTimeout makes every session permanent and forces it to be
// re-saved, which refreshes its expiry on each request.
func enableSessionTimeout(c *gin.Context) {
	if s := session.FromGin(c); s != nil {
		s.Permanent = true
		s.Modified = true
	}
}

// setCSRFCookie attaches a fresh anti-forgery token to every response.
func setCSRFCookie(a *app.Application) app.HookFunc {
	return func(c *gin.Context) {
		binding := ""
		if s := session.FromGin(c); s != nil {
			binding = s.ID
		}
		token, err := a.CSRF().Generate(binding)
		if err != nil {
			a.Logger.Error("Failed to issue csrf token", zap.Error(err))
			return
		}
		c.SetCookie(a.Config.CSRF.CookieName, token, 0, "/", "", a.Config.Session.Secure, false)
	}
}

func configureTemplates(a *app.Application, cfg *config.Config) error {
	a.Router.SetFuncMap(template.FuncMap{
		"now": func(layout ...string) string {
			if len(layout) == 0 {
				return time.Now().UTC().Format(time.RFC3339)
			}
			return time.Now().UTC().Format(layout[0])
		},
	})

	if folder := resolvePath(cfg.ProjectRoot, cfg.Templates.Folder); folder != "" {
		files, err := doublestar.FilepathGlob(filepath.Join(folder, templatePattern))
		if err != nil {
			return err
		}
		if len(files) > 0 {
			a.Router.LoadHTMLFiles(files...)
			a.Logger.Debug("Templates loaded", zap.String("folder", folder), zap.Int("files", len(files)))
		}
	}

	static := resolvePath(cfg.ProjectRoot, cfg.Templates.StaticFolder)
	if static != "" && cfg.Templates.StaticURLPath != "" {
		if info, err := os.Stat(static); err == nil && info.IsDir() {
			a.Router.Static(cfg.Templates.StaticURLPath, static)
		}
	}
	return nil
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
