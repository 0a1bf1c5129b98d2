// Package dom applies CSS custom-property overrides to the live page.
package dom

import (
	"context"

	"github.com/bnema/retint/internal/domain/entity"
)

// Applier is the contract the engine depends on. ApplyOne/ApplyMany
// are idempotent: repeating a call with identical values must not
// change observable state. ResetAll removes every inline override this
// engine may have set, leaving page-authored stylesheet values in
// effect. ReadComputed returns post-cascade values and is only
// trustworthy for seeding initial values immediately after ResetAll.
type Applier interface {
	ApplyOne(ctx context.Context, name entity.CSSPropertyName, value string) error
	ApplyMany(ctx context.Context, values map[entity.CSSPropertyName]string) error
	ResetAll(ctx context.Context) error
	ReadComputed(ctx context.Context, names []entity.CSSPropertyName) (map[entity.CSSPropertyName]string, error)
}
