package sessions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jrycodes/typotrace/internal/analysis"
	"github.com/jrycodes/typotrace/pkg/lifecycle"
	"github.com/jrycodes/typotrace/pkg/storage"
	"github.com/jrycodes/typotrace/pkg/typocheck"
)

// DefaultMaxResultSize bounds a corrected document buffered for archiving.
const DefaultMaxResultSize = 256 << 20

// System defines the public contract for browser submission sessions.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Create(ctx context.Context, doc typocheck.Document) (Response, error)
	Find(id uuid.UUID) (Response, error)
	Delete(id uuid.UUID) error
	Download(ctx context.Context, id uuid.UUID) (*Download, error)

	// Sweep resets and evicts sessions idle longer than the TTL and
	// returns how many were evicted.
	Sweep(now time.Time) int
	// Start registers the janitor and the shutdown reset with lc.
	Start(lc *lifecycle.Coordinator, interval time.Duration)
	Len() int
}

// Options configures a session System.
type Options struct {
	PollInterval  time.Duration
	TTL           time.Duration
	MaxSessions   int
	// MaxResultSize caps a corrected document in bytes. Zero means
	// DefaultMaxResultSize.
	MaxResultSize int64
}

// Download is a corrected document ready to stream to the browser.
type Download struct {
	Data        []byte
	ContentType string
	Filename    string
	Key         string
}

type system struct {
	transport analysis.Transport
	store     storage.System
	logger    *slog.Logger
	opts      Options
	now       func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// New creates a session System. Each session owns its own Controller
// driving transport; completed results are archived in store.
func New(transport analysis.Transport, store storage.System, logger *slog.Logger, opts Options) System {
	if opts.MaxResultSize <= 0 {
		opts.MaxResultSize = DefaultMaxResultSize
	}

	return &system{
		transport: transport,
		store:     store,
		logger:    logger.With("system", "sessions"),
		opts:      opts,
		now:       time.Now,
		sessions:  make(map[uuid.UUID]*session),
	}
}

func (s *system) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *system) Create(ctx context.Context, doc typocheck.Document) (Response, error) {
	if err := doc.Validate(); err != nil {
		return Response{}, err
	}

	sess := &session{
		id:         uuid.New(),
		controller: analysis.NewController(s.transport, s.opts.PollInterval, s.logger),
		lastSeen:   s.now(),
	}

	if err := s.register(sess); err != nil {
		return Response{}, err
	}

	if err := sess.controller.Submit(ctx, doc); err != nil {
		s.remove(sess.id)
		return Response{}, err
	}

	s.logger.Info("session created", "id", sess.id, "filename", doc.Filename, "job_id", sess.controller.View().JobID)
	return sess.response(), nil
}

func (s *system) Find(id uuid.UUID) (Response, error) {
	sess, err := s.get(id)
	if err != nil {
		return Response{}, err
	}
	return sess.response(), nil
}

func (s *system) Delete(id uuid.UUID) error {
	sess := s.remove(id)
	if sess == nil {
		return ErrNotFound
	}
	s.logger.Info("session deleted", "id", id)
	return nil
}

func (s *system) Download(ctx context.Context, id uuid.UUID) (*Download, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	if key := sess.archiveKey(); key != "" {
		return s.fromArchive(ctx, key)
	}

	result, err := sess.controller.Download(ctx)
	if err != nil {
		return nil, err
	}
	defer result.Body.Close()

	data, err := readLimited(result.Body, s.opts.MaxResultSize)
	if err != nil {
		if errors.Is(err, ErrResultTooLarge) {
			s.logger.Warn("result rejected", "id", id, "limit", s.opts.MaxResultSize)
			return nil, err
		}
		return nil, &typocheck.TransportError{Op: "download", Err: err}
	}

	view := sess.controller.View()
	dl := &Download{
		Data:        data,
		ContentType: result.ContentType,
		Filename:    result.Filename,
		Key:         ResultKey(view.JobID, result.Filename),
	}

	if err := s.store.Upload(ctx, dl.Key, bytes.NewReader(data), dl.ContentType); err != nil {
		s.logger.Warn("result archive failed", "id", id, "key", dl.Key, "error", err)
	} else {
		sess.setArchiveKey(dl.Key)
		s.logger.Info("result archived", "id", id, "key", dl.Key, "size", len(data))
	}

	return dl, nil
}

func (s *system) Sweep(now time.Time) int {
	s.mu.Lock()
	expired := s.evictLocked(now)
	s.mu.Unlock()

	s.release(expired)
	return len(expired)
}

func (s *system) Start(lc *lifecycle.Coordinator, interval time.Duration) {
	lc.Every(interval, func(context.Context) {
		s.Sweep(s.now())
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.closeAll()
	})
}

func (s *system) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *system) fromArchive(ctx context.Context, key string) (*Download, error) {
	rc, err := s.store.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open archived result: %w", err)
	}
	defer rc.Close()

	data, err := readLimited(rc, s.opts.MaxResultSize)
	if err != nil {
		return nil, fmt.Errorf("read archived result: %w", err)
	}

	return &Download{
		Data:        data,
		ContentType: typocheck.ContentTypePDF,
		Filename:    path.Base(key),
		Key:         key,
	}, nil
}

// register adds sess unless the system is full. Idle sessions are evicted
// first when the limit is reached.
func (s *system) register(sess *session) error {
	s.mu.Lock()
	var expired []*session
	if len(s.sessions) >= s.opts.MaxSessions {
		expired = s.evictLocked(s.now())
	}
	full := len(s.sessions) >= s.opts.MaxSessions
	if !full {
		s.sessions[sess.id] = sess
	}
	s.mu.Unlock()

	s.release(expired)
	if full {
		return ErrCapacity
	}
	return nil
}

func (s *system) evictLocked(now time.Time) []*session {
	var expired []*session
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.opts.TTL {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	return expired
}

func (s *system) release(expired []*session) {
	for _, sess := range expired {
		sess.controller.Reset()
	}
	if len(expired) > 0 {
		s.logger.Info("idle sessions evicted", "count", len(expired))
	}
}

func (s *system) get(id uuid.UUID) (*session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

func (s *system) remove(id uuid.UUID) *session {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	sess.controller.Reset()
	return sess
}

func (s *system) closeAll() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[uuid.UUID]*session)
	s.mu.Unlock()

	for _, sess := range all {
		sess.controller.Reset()
	}
	s.logger.Info("sessions closed", "count", len(all))
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrResultTooLarge
	}
	return data, nil
}

// ResultKey is the storage key a corrected document is archived under.
func ResultKey(jobID, filename string) string {
	return path.Join("results", jobID, path.Base(filename))
}
