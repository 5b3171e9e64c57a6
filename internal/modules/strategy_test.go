// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"context"
	"errors"
	"testing"
)

func TestParseListing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "empty output still has base",
			output: "",
			want:   "java.base",
		},
		{
			name:   "bare module lines",
			output: "   java.base\n   java.logging\n   java.sql\n",
			want:   "java.base,java.logging,java.sql",
		},
		{
			name:   "module/package pairs",
			output: "java.base/sun.security.util\njdk.unsupported/sun.misc\n",
			want:   "java.base,jdk.unsupported",
		},
		{
			name:   "bracketed annotations",
			output: "app.jar -> java.sql\n   com.example -> java.sql [java.sql]\n   com.example -> javax.xml [java.xml]\n",
			want:   "java.base,java.sql,java.xml",
		},
		{
			name:   "noise ignored",
			output: "Warning: split package\nJDK removed internal API\nnot found\n",
			want:   "java.base",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseListing(tt.output).String(); got != tt.want {
				t.Errorf("ParseListing() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreciseStrategy(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		insp := &fakeInspector{precise: "java.sql,java.base\n"}
		set, err := NewPreciseStrategy(insp).Analyze(context.Background(), []string{"app.jar"})
		if err != nil {
			t.Fatalf("Analyze() unexpected error: %v", err)
		}
		if set.String() != "java.base,java.sql" {
			t.Errorf("Analyze() = %q", set.String())
		}
	})

	t.Run("empty output", func(t *testing.T) {
		t.Parallel()
		insp := &fakeInspector{precise: "\n"}
		if _, err := NewPreciseStrategy(insp).Analyze(context.Background(), nil); !errors.Is(err, ErrEmptyAnalysis) {
			t.Errorf("Analyze() error = %v, want ErrEmptyAnalysis", err)
		}
	})

	t.Run("tool failure", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("jdeps exploded")
		insp := &fakeInspector{preciseErr: boom}
		if _, err := NewPreciseStrategy(insp).Analyze(context.Background(), nil); !errors.Is(err, boom) {
			t.Errorf("Analyze() error = %v, want %v", err, boom)
		}
	})
}

func TestStrategyError(t *testing.T) {
	t.Parallel()

	inner := errors.New("exit status 2")
	err := &StrategyError{Strategy: StrategyListing, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("StrategyError should unwrap to its cause")
	}
	if got := err.Error(); got != "listing analysis failed: exit status 2" {
		t.Errorf("Error() = %q", got)
	}
}
