package notify

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-extras/go-kit/must"
	html "github.com/gofiber/template/html/v2"

	"avotrade/internal/domain"
	applog "avotrade/internal/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

// DefaultQueueSize bounds how many notifications may wait for the worker.
const DefaultQueueSize = 64

// SendTimeout caps a single delivery attempt.
const SendTimeout = 15 * time.Second

var ErrClosed = errors.New("notifier closed")

// Notifier turns new leads into emails on a background worker. Enqueue never
// blocks the caller; failures are logged and dropped.
type Notifier struct {
	mailer Mailer
	engine *html.Engine
	from   string
	to     string

	queue chan domain.Enquiry
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func New(m Mailer, from, to string, queueSize int) (*Notifier, error) {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	engine := html.NewFileSystem(http.FS(must.Must(fs.Sub(templatesFS, "templates"))), ".html")
	if err := engine.Load(); err != nil {
		return nil, err
	}
	n := &Notifier{
		mailer: m,
		engine: engine,
		from:   from,
		to:     to,
		queue:  make(chan domain.Enquiry, queueSize),
	}
	n.wg.Add(1)
	go n.run()
	return n, nil
}

// EnquiryCreated schedules the notification for e. It reports false when the
// queue is full or the notifier is closed.
func (n *Notifier) EnquiryCreated(e domain.Enquiry) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		applog.Error(nil, "notify.enquiry.drop", ErrClosed, map[string]any{"enquiry_id": e.ID})
		return false
	}
	select {
	case n.queue <- e:
		return true
	default:
		applog.Error(nil, "notify.enquiry.drop", errors.New("queue full"), map[string]any{"enquiry_id": e.ID})
		return false
	}
}

// Close stops accepting work and waits for queued messages or ctx, whichever ends first.
func (n *Notifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for e := range n.queue {
		n.deliver(e)
	}
}

func (n *Notifier) deliver(e domain.Enquiry) {
	msg, err := n.Compose(e)
	if err != nil {
		applog.Error(nil, "notify.enquiry.fail", err, map[string]any{"enquiry_id": e.ID, "stage": "render"})
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), SendTimeout)
	defer cancel()
	if err := n.mailer.Send(ctx, msg); err != nil {
		applog.Error(nil, "notify.enquiry.fail", err, map[string]any{"enquiry_id": e.ID, "stage": "send"})
		return
	}
	applog.Info(nil, "notify.enquiry.sent", map[string]any{"enquiry_id": e.ID, "message_id": msg.ID})
}

// Subject mirrors the sales inbox conventions for buyer and seller leads.
func Subject(e domain.Enquiry) string {
	if e.Type == domain.EnquirySeller {
		return "New Seller/Processor Registration - " + e.Name
	}
	return "New Product Enquiry - " + e.Name
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

// Compose renders the email for e without sending it.
func (n *Notifier) Compose(e domain.Enquiry) (Message, error) {
	heading := "New buyer enquiry"
	if e.Type == domain.EnquirySeller {
		heading = "New seller enquiry"
	}
	var buf bytes.Buffer
	err := n.engine.Render(&buf, "enquiry", map[string]any{
		"Heading":  heading,
		"Enquiry":  e,
		"Buyer":    e.Type != domain.EnquirySeller,
		"Product":  orNA(e.Product),
		"Quantity": orNA(e.Quantity),
		"Message":  orNA(e.Message),
		"Received": e.CreatedAt.UTC().Format(time.RFC1123),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:      newMessageID(),
		From:    n.from,
		To:      n.to,
		ReplyTo: e.Email,
		Subject: Subject(e),
		HTML:    buf.String(),
	}, nil
}
