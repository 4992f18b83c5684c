package file

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/starsearch/internal/core/domain"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STARSEARCH_"

// applyEnv overlays STARSEARCH_* variables onto doc. A nil environ reads
// the process environment. Unset and empty variables leave doc alone.
func applyEnv(doc *document, environ map[string]string) error {
	opts := env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}
	if err := env.ParseWithOptions(doc, opts); err != nil {
		return fmt.Errorf("%w: environment: %w", domain.ErrInvalidConfig, err)
	}
	return nil
}

// EnvNames returns every recognised environment variable in file order.
func EnvNames() []string {
	return envNames(reflect.TypeOf(document{}), nil)
}

func envNames(t reflect.Type, names []string) []string {
	for i := range t.NumField() {
		field := t.Field(i)
		if field.Type.Kind() == reflect.Struct {
			names = envNames(field.Type, names)
			continue
		}
		if tag, _, _ := strings.Cut(field.Tag.Get("env"), ","); tag != "" {
			names = append(names, EnvPrefix+tag)
		}
	}
	return names
}
