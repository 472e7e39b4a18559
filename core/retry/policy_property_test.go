//go:build property
// +build property

package retry

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRetryBoundProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("always-timeout renderer is attempted retries+1 times", prop.ForAll(
		func(retries int) bool {
			calls := 0
			err := NewPolicy(retries, 0).Do(context.Background(), "render", func(context.Context) error {
				calls++
				return ErrTimeout
			})
			return err != nil && calls == retries+1
		},
		gen.IntRange(0, 20),
	))

	properties.Property("success on attempt k stops after k attempts", prop.ForAll(
		func(retries, k int) bool {
			if k > retries+1 {
				return true
			}
			calls := 0
			err := NewPolicy(retries, 0).Do(context.Background(), "render", func(context.Context) error {
				calls++
				if calls < k {
					return ErrTimeout
				}
				return nil
			})
			return err == nil && calls == k
		},
		gen.IntRange(0, 20),
		gen.IntRange(1, 21),
	))

	properties.TestingRun(t)
}
