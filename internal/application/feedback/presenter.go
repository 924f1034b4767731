package feedback

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// Options tunes overlay behavior.
type Options struct {
	AutoDismiss    time.Duration
	SwipeThreshold float64
}

// Presenter owns the single active feedback session. All exported methods
// are safe to call from any goroutine; the work itself runs on the
// presentation Executor.
type Presenter struct {
	overlay       ports.OverlaySurface
	notifications ports.NotificationSurface
	table         *DisplayTable
	clock         ports.Clock
	exec          Executor
	logger        ports.Logger
	opts          Options
	newSessionID  func() string
	idMu          sync.Mutex

	// Owned by the presentation context.
	session   string
	attached  bool
	timer     ports.Timer
	anim      ports.Animation
	onConfirm func()

	mu       sync.RWMutex
	state    domain.SessionState
	snapshot string
}

// NewPresenter wires a presenter. overlay may be nil when the overlay
// channel is disabled; the notification channel is always present.
func NewPresenter(
	overlay ports.OverlaySurface,
	notifications ports.NotificationSurface,
	table *DisplayTable,
	clock ports.Clock,
	exec Executor,
	logger ports.Logger,
	opts Options,
) *Presenter {
	if opts.AutoDismiss <= 0 {
		opts.AutoDismiss = domain.DefaultAutoDismiss
	}
	if opts.SwipeThreshold <= 0 {
		opts.SwipeThreshold = domain.DefaultSwipeThreshold
	}
	if table == nil {
		table = MustDefaultTable()
	}
	return &Presenter{
		overlay:       overlay,
		notifications: notifications,
		table:         table,
		clock:         clock,
		exec:          exec,
		logger:        logger,
		opts:          opts,
		newSessionID:  uuid.NewString,
		state:         domain.SessionIdle,
	}
}

// State returns the session state and the id of the current session.
func (p *Presenter) State() (domain.SessionState, string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state, p.snapshot
}

// ShowLoading replaces any current session with a loading indicator on both
// channels and returns the id of the new session. The id is the handle a
// failed run passes to Abort.
func (p *Presenter) ShowLoading() string {
	id := p.nextSessionID()
	p.exec.Post(func() {
		p.replace()
		p.session = id

		if p.overlay != nil {
			anim, err := p.overlay.Attach(domain.OverlayView{Kind: domain.ViewLoading, SessionID: id})
			if err != nil {
				p.logger.Warn("overlay attach failed", map[string]interface{}{"stage": "loading", "error": err.Error()})
			} else {
				p.attached = true
				p.anim = anim
			}
		}
		p.post(domain.Notification{
			Title:    "SCRNSTR",
			Text:     "Analyzing screenshot...",
			Accent:   domain.AccentGreen,
			Ongoing:  true,
			Progress: true,
		})
		p.setState(domain.SessionLoading, id)
	})
	return id
}

// ShowResult replaces any current session with the rendered result and
// starts the auto-dismiss countdown. onConfirm runs on the presentation
// context when the user taps the action element; it must not block.
func (p *Presenter) ShowResult(result domain.ClassificationResult, source domain.SourceRef, onConfirm func()) {
	id := p.nextSessionID()
	p.exec.Post(func() {
		p.replace()
		p.session = id
		p.onConfirm = onConfirm

		rendered := p.table.Render(result)
		if p.overlay != nil {
			anim, err := p.overlay.Attach(domain.OverlayView{
				Kind:        domain.ViewResult,
				SessionID:   id,
				Category:    result.Category,
				Title:       rendered.Title,
				Subtitle:    rendered.Subtitle,
				ActionLabel: rendered.ActionLabel,
				Accent:      rendered.Accent,
				Thumbnail:   source,
				Countdown:   p.opts.AutoDismiss,
			})
			if err != nil {
				p.logger.Warn("overlay attach failed", map[string]interface{}{"stage": "result", "error": err.Error()})
			} else {
				p.attached = true
				p.anim = anim
				p.timer = p.clock.AfterFunc(p.opts.AutoDismiss, func() {
					p.exec.Post(func() {
						if p.session != id {
							return
						}
						p.timer = nil
						p.dismiss(true)
					})
				})
			}
		}

		notification := domain.Notification{
			Title:  rendered.NotificationTitle,
			Text:   rendered.NotificationText,
			Accent: rendered.Accent,
		}
		trigger, err := domain.NewActionTrigger(result, source, p.clock.Now())
		if err != nil {
			p.logger.Warn("action trigger not attached", map[string]interface{}{"error": err.Error()})
		} else {
			notification.Trigger = &trigger
		}
		p.post(notification)
		p.setState(domain.SessionResultShown, id)
	})
}

// Dismiss ends the current session on the overlay channel.
func (p *Presenter) Dismiss(animated bool) {
	p.exec.Post(func() {
		p.dismiss(animated)
	})
}

// Abort terminates the failed run that owns the loading session sessionID:
// the overlay is removed immediately and the analyzing notification is
// withdrawn. It does nothing once another session has replaced that one.
func (p *Presenter) Abort(sessionID string, cause error) {
	p.exec.Post(func() {
		fields := map[string]interface{}{"session": sessionID}
		if cause != nil {
			fields["error"] = cause.Error()
		}
		if state, _ := p.State(); sessionID != p.session || state != domain.SessionLoading {
			p.logger.Debug("stale abort ignored", fields)
			return
		}
		p.logger.Info("feedback session aborted", fields)
		p.dismiss(false)
		p.cancelNotification()
		p.setState(domain.SessionDismissed, p.session)
	})
}

// HandleGesture applies a completed user interaction to the result overlay
// identified by sessionID. Gestures for any other session are ignored.
func (p *Presenter) HandleGesture(sessionID string, g domain.Gesture) {
	p.exec.Post(func() {
		if sessionID != p.session || !p.attached {
			return
		}
		if state, _ := p.State(); state != domain.SessionResultShown {
			return
		}
		switch g.Kind {
		case domain.GestureTapAction:
			confirm := p.onConfirm
			p.onConfirm = nil
			if confirm != nil {
				confirm()
			}
			p.cancelNotification()
			p.dismiss(true)
		case domain.GestureDrag:
			if math.Abs(g.DeltaY) > p.opts.SwipeThreshold {
				p.dismiss(true)
				return
			}
			p.overlay.SnapBack()
		case domain.GestureTapOutside:
			p.dismiss(true)
		}
	})
}

// Toast delivers a transient message through the overlay channel, or the
// log when the overlay is disabled.
func (p *Presenter) Toast(message string) {
	p.exec.Post(func() {
		if p.overlay == nil {
			p.logger.Info(message, map[string]interface{}{"stage": "toast"})
			return
		}
		p.overlay.Toast(message)
	})
}

func (p *Presenter) nextSessionID() string {
	p.idMu.Lock()
	defer p.idMu.Unlock()
	return p.newSessionID()
}

// replace tears down the previous session before a new one starts.
func (p *Presenter) replace() {
	p.cancelTimers()
	p.onConfirm = nil
	if p.attached {
		p.overlay.Detach(false)
		p.attached = false
	}
}

func (p *Presenter) dismiss(animated bool) {
	p.cancelTimers()
	p.onConfirm = nil
	if p.attached {
		p.overlay.Detach(animated)
		p.attached = false
	}
	state, _ := p.State()
	if state == domain.SessionLoading || state == domain.SessionResultShown {
		p.setState(domain.SessionDismissed, p.session)
	}
}

func (p *Presenter) cancelTimers() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.anim != nil {
		p.anim.Cancel()
		p.anim = nil
	}
}

func (p *Presenter) post(n domain.Notification) {
	if err := p.notifications.Post(domain.AnalysisNotificationID, n); err != nil {
		p.logger.Warn("notification post failed", map[string]interface{}{"error": err.Error()})
	}
}

func (p *Presenter) cancelNotification() {
	if err := p.notifications.Cancel(domain.AnalysisNotificationID); err != nil {
		p.logger.Warn("notification cancel failed", map[string]interface{}{"error": err.Error()})
	}
}

func (p *Presenter) setState(state domain.SessionState, session string) {
	p.mu.Lock()
	p.state = state
	p.snapshot = session
	p.mu.Unlock()
	p.logger.Debug("feedback session state", map[string]interface{}{"session": session, "state": string(state)})
}

var _ ports.Messenger = (*Presenter)(nil)
