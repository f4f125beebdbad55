package site

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/bundle"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/extensions"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/shared/utils"
)

// Name is the bundle's catalog name.
const Name = "site"

// inboxSize bounds the in-memory submission buffer.
const inboxSize = 100

// ContactSubmission is a message left through the contact form.
type ContactSubmission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" form:"name"`
	Email     string    `json:"email" form:"email"`
	Message   string    `json:"message" form:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the user-supplied fields.
func (s *ContactSubmission) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	return errors.Join(
		utils.ValidateName(s.Name, "name"),
		utils.ValidateEmail(s.Email, true),
		utils.ValidateMessage(s.Message),
	)
}

// ContactSerializer renders contact submissions.
type ContactSerializer struct{}

// Model returns the serialized model.
func (ContactSerializer) Model() any { return &ContactSubmission{} }

// Dump encodes s.
func (ContactSerializer) Dump(s *ContactSubmission) ([]byte, error) {
	return sonic.Marshal(s)
}

const insertSubmissionSQL = `INSERT INTO contact_submissions (id, name, email, message, created_at)
VALUES ($1, $2, $3, $4, $5)`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}

type pages struct {
	mu    sync.Mutex
	inbox []ContactSubmission
	now   func() time.Time
	// db returns the database for a, or nil to use the inbox.
	db func(a *app.Application) execer
}

func newPages() *pages {
	return &pages{
		now: time.Now,
		db: func(a *app.Application) execer {
			if a == nil {
				return nil
			}
			if d, ok := extensions.DatabaseFrom(a); ok && d.Enabled() {
				return d
			}
			return nil
		},
	}
}

// New returns a fresh bundle descriptor.
func New() *bundle.Bundle {
	p := newPages()
	return &bundle.Bundle{
		Name:        Name,
		ModulePath:  "internal/bundles/site",
		Description: "Public pages and contact form",
		Blueprints: []*bundle.Blueprint{
			{Name: "pages", URLPrefix: "", Routes: p.routes},
		},
		Models: []bundle.ModelEntry{
			{Name: "ContactSubmission", Model: &ContactSubmission{}},
		},
		Serializers: []bundle.SerializerEntry{
			{Name: "ContactSerializer", Serializer: ContactSerializer{}},
		},
	}
}

func (p *pages) routes(r gin.IRoutes) {
	r.GET("/", p.handleIndex)
	r.POST("/contact", p.handleContact)
}

func (p *pages) handleIndex(c *gin.Context) {
	a, ok := app.FromGin(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":    a.Name,
		"bundles": a.BundleNames(),
	})
}

func (p *pages) handleContact(c *gin.Context) {
	var sub ContactSubmission
	if err := c.ShouldBind(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sub.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub.ID = id.Default().GenerateWithPrefix(id.SubmissionPrefix)
	sub.CreatedAt = p.now().UTC()

	a, _ := app.FromGin(c)
	if err := p.store(c.Request.Context(), a, sub); err != nil {
		if a != nil {
			a.Logger.Error("Failed to store contact submission", zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store submission"})
		return
	}

	data, err := ContactSerializer{}.Dump(&sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusCreated, "application/json; charset=utf-8", data)
}

func (p *pages) store(ctx context.Context, a *app.Application, sub ContactSubmission) error {
	if db := p.db(a); db != nil {
		_, err := db.Exec(ctx, insertSubmissionSQL, sub.ID, sub.Name, sub.Email, sub.Message, sub.CreatedAt)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inbox = append(p.inbox, sub)
	if len(p.inbox) > inboxSize {
		p.inbox = p.inbox[len(p.inbox)-inboxSize:]
	}
	return nil
}
