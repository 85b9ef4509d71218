package backend

import (
	"fmt"
	"sort"

	"jsonoracle/internal/config"
	"jsonoracle/internal/mapping"
)

// UnknownBackendError is returned when a configured name has no adapter.
type UnknownBackendError struct {
	Name string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown backend %q (known: %v)", e.Name, Names())
}

type factory func(cfg config.Config) (Adapter, error)

var factories = map[string]factory{
	"stdlib": func(config.Config) (Adapter, error) {
		return NewStdlib(), nil
	},
	"jsontext": func(cfg config.Config) (Adapter, error) {
		return NewJSONText(cfg.JSONText), nil
	},
	"jsoniter": func(cfg config.Config) (Adapter, error) {
		return NewJSONIter(cfg.JSONIter), nil
	},
	"fastjson": func(config.Config) (Adapter, error) {
		return NewFastJSON(), nil
	},
	"mysql": func(cfg config.Config) (Adapter, error) {
		return NewMySQL(cfg.MySQL)
	},
}

// Names lists the backends that can be built, sorted.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs fresh adapters for cfg.Backends in order. Duplicate names
// are passed through; the oracle rejects them at registration.
func Build(cfg config.Config) ([]Adapter, error) {
	adapters := make([]Adapter, 0, len(cfg.Backends))
	for _, name := range cfg.Backends {
		f, ok := factories[name]
		if !ok {
			CloseAll(adapters)
			return nil, &UnknownBackendError{Name: name}
		}
		a, err := f(cfg)
		if err != nil {
			CloseAll(adapters)
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

// Tables lists every mapping table, in Names order.
func Tables() []mapping.Describer {
	return []mapping.Describer{
		fastjsonTable,
		jsoniterTable,
		jsontextTable,
		mysqlTable,
		stdlibTable,
	}
}
