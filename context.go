package emitter

import "context"

const (
	dispatchContextKey contextKey = iota
)

// contextKey
type contextKey int

type dispatchContextData struct {
	name    string
	pattern string
	subID   string
	manager *Manager
}

// ContextName get the triggered event name stored in context
func ContextName(ctx context.Context) string {
	s, ok := ctx.Value(dispatchContextKey).(*dispatchContextData)
	if ok {
		return s.name
	}
	return ""
}

// ContextPattern get the pattern the running listener was registered under
func ContextPattern(ctx context.Context) string {
	s, ok := ctx.Value(dispatchContextKey).(*dispatchContextData)
	if ok {
		return s.pattern
	}
	return ""
}

// ContextSubscriptionID get the running listener's subscription id
func ContextSubscriptionID(ctx context.Context) string {
	s, ok := ctx.Value(dispatchContextKey).(*dispatchContextData)
	if ok {
		return s.subID
	}
	return ""
}

// ContextManager get the manager dispatching the event
func ContextManager(ctx context.Context) *Manager {
	s, ok := ctx.Value(dispatchContextKey).(*dispatchContextData)
	if ok {
		return s.manager
	}
	return nil
}

func contextWithDispatch(ctx context.Context, name string, sub *subscription, m *Manager) context.Context {
	return context.WithValue(ctx, dispatchContextKey, &dispatchContextData{
		name:    name,
		pattern: sub.pattern,
		subID:   sub.id,
		manager: m,
	})
}
