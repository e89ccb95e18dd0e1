package selectable

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shschool-data/internal/logger"
)

var (
	ErrUnknownMethod   = errors.New("unknown select method")
	ErrDuplicateMethod = errors.New("select method already registered")
)

// Func returns the full result of one selectable method, usually a slice of
// records.
type Func func(ctx context.Context) (any, error)

// List adapts a typed select to a Func.
func List[T any](fn func(ctx context.Context) ([]T, error)) Func {
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

// One adapts a select returning a single record.
func One[T any](fn func(ctx context.Context) (*T, error)) Func {
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

type MethodInfo struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Registry is the set of select methods exposed for reporting. Names are
// unique.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]method
	log     *zap.Logger
}

type method struct {
	info MethodInfo
	fn   Func
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{methods: map[string]method{}, log: logger.OrNop(log)}
}

func (r *Registry) Register(name, category string, fn Func) error {
	if name == "" || fn == nil {
		return errors.New("select method needs a name and a function")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.methods[name]; dup {
		return errors.Wrap(ErrDuplicateMethod, name)
	}
	r.methods[name] = method{info: MethodInfo{Name: name, Category: category}, fn: fn}
	return nil
}

// Methods lists the registered methods sorted by name.
func (r *Registry) Methods() []MethodInfo {
	r.mu.RLock()
	out := make([]MethodInfo, 0, len(r.methods))
	for _, m := range r.methods {
		out = append(out, m.info)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) Lookup(name string) (MethodInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.methods[name]
	return m.info, ok
}

// Invoke runs one method and returns its result as rows whose keys keep the
// record's field order.
func (r *Registry) Invoke(ctx context.Context, name string) ([]*orderedmap.OrderedMap, error) {
	r.mu.RLock()
	m, ok := r.methods[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrap(ErrUnknownMethod, name)
	}

	res, err := m.fn(ctx)
	if err != nil {
		r.log.Error("select method failed", zap.String("method", name), zap.Error(err))
		return nil, errors.Wrap(err, name)
	}
	rows, err := ToRows(res)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	r.log.Debug("select method invoked", zap.String("method", name), zap.Int("rows", len(rows)))
	return rows, nil
}

// ToRows converts a value to ordered rows through its JSON form. A slice
// gives one row per element, an object gives one row, and null gives none.
// Elements that are not objects land in a "value" column.
func ToRows(v any) ([]*orderedmap.OrderedMap, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode result")
	}
	raw = bytes.TrimSpace(raw)

	var items []json.RawMessage
	switch {
	case bytes.Equal(raw, []byte("null")):
		return []*orderedmap.OrderedMap{}, nil
	case len(raw) > 0 && raw[0] == '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errors.Wrap(err, "decode result")
		}
	default:
		items = []json.RawMessage{raw}
	}

	rows := make([]*orderedmap.OrderedMap, 0, len(items))
	for _, item := range items {
		row := orderedmap.New()
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '{' {
			if err := row.UnmarshalJSON(item); err != nil {
				return nil, errors.Wrap(err, "decode row")
			}
		} else {
			var scalar any
			if err := json.Unmarshal(item, &scalar); err != nil {
				return nil, errors.Wrap(err, "decode row")
			}
			row.Set("value", scalar)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
