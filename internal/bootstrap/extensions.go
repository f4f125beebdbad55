package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
)

// RegisterExtensions initializes each extension in insertion order. The
// first failure aborts; extensions already initialized stay initialized.
func RegisterExtensions(a *app.Application, exts *app.Extensions) error {
	return exts.Each(func(id string, ext app.Extension) error {
		if err := ext.InitApp(a); err != nil {
			return fmt.Errorf("extension %s: %w", id, err)
		}
		a.MarkInitialized(id, ext)
		a.Logger.Debug("Extension initialized", zap.String("extension", id))
		return nil
	})
}
