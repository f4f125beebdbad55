package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
)

// RegisterModels rebuilds the model registry from every bundle. When two
// bundles declare the same name the later bundle wins.
func RegisterModels(a *app.Application) {
	models := make(map[string]any)
	for _, b := range a.IterBundles() {
		for _, m := range b.Models {
			if _, exists := models[m.Name]; exists {
				a.Logger.Debug("Model replaced", zap.String("model", m.Name), zap.String("bundle", b.Name))
			}
			models[m.Name] = m.Model
		}
	}
	a.Models = models
	a.Metrics.ModelsRegistered.Set(float64(len(models)))
}

// RegisterSerializers rebuilds the serializer registry keyed by the name
// of each serializer's target model. Later bundles win.
func RegisterSerializers(a *app.Application) error {
	serializers := make(map[string]bundle.Serializer)
	for _, b := range a.IterBundles() {
		for _, s := range b.Serializers {
			if s.Serializer == nil {
				return fmt.Errorf("serializer %s in bundle %s: %w", s.Name, b.Name, ErrMalformedSerializer)
			}
			target := bundle.ModelName(s.Serializer.Model())
			if target == "" {
				return fmt.Errorf("serializer %s in bundle %s: %w", s.Name, b.Name, ErrMalformedSerializer)
			}
			serializers[target] = s.Serializer
		}
	}
	a.Serializers = serializers
	a.Metrics.SerializersRegistered.Set(float64(len(serializers)))
	return nil
}
