package action

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result aggregates every handler run for one title. Entries appear in
// category priority order.
type Result struct {
	Matched  []Category
	Failed   []Category // matched categories that reported at least one error
	Executed []string
	Errors   []string
}

// Success reports whether no handler failed.
func (r Result) Success() bool {
	return len(r.Errors) == 0
}

// DefaultOnly reports whether nothing matched and only the fallback ran.
func (r Result) DefaultOnly() bool {
	return len(r.Matched) == 1 && r.Matched[0] == CategoryDefault
}

// Execution is the single result of first-match mode.
type Execution struct {
	Category Category
	Result   string
	Errors   []string
}

// Router dispatches titles to category handlers.
type Router struct {
	handlers [numCategories]Handler
	logger   *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router's logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithHandler replaces the handler for one category.
func WithHandler(c Category, h Handler) Option {
	return func(r *Router) {
		if c >= 0 && c < numCategories && h != nil {
			r.handlers[c] = h
		}
	}
}

// NewRouter returns a router using the built-in simulated handlers.
func NewRouter(creds Credentials, opts ...Option) *Router {
	r := &Router{
		handlers: defaultHandlers(creds),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dispatch runs every matched handler for title and collects their output.
// Handlers run concurrently; handler failures are reported in the result and
// never returned as an error. The only error is ErrEmptyTitle (or ctx's error
// if it is already done).
func (r *Router) Dispatch(ctx context.Context, title string) (Result, error) {
	matched, err := Match(title)
	if err != nil {
		return Result{}, err
	}

	outcomes := make([]Outcome, len(matched))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range matched {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.handlers[c](title)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("failed to dispatch actions: %w", err)
	}

	res := Result{Matched: matched, Executed: []string{}, Errors: []string{}}
	for i, out := range outcomes {
		res.Executed = append(res.Executed, out.Descriptions...)
		for _, herr := range out.Errors {
			res.Errors = append(res.Errors, herr.Error())
		}
		if len(out.Errors) > 0 {
			res.Failed = append(res.Failed, matched[i])
		}
		r.logger.Debug("action handled",
			zap.String("category", matched[i].String()),
			zap.Int("executed", len(out.Descriptions)),
			zap.Int("errors", len(out.Errors)),
		)
	}
	return res, nil
}

// Execute runs only the highest-priority matching handler for title.
func (r *Router) Execute(title string) (Execution, error) {
	c, err := MatchFirst(title)
	if err != nil {
		return Execution{}, err
	}
	out := r.handlers[c](title)

	exec := Execution{Category: c, Errors: []string{}}
	for _, herr := range out.Errors {
		exec.Errors = append(exec.Errors, herr.Error())
	}
	exec.Result = strings.Join(out.Descriptions, "\n\n")
	if exec.Result == "" {
		exec.Result = "⚠️ " + strings.Join(exec.Errors, "\n⚠️ ")
	}

	r.logger.Debug("task executed", zap.String("category", c.String()))
	return exec, nil
}
