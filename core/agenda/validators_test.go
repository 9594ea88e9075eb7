package agenda

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/iiw24/turma/core"
)

func TestCleanClassID(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "iiw24a", want: "iiw24a"},
		{raw: " IIW24A ", want: "iiw24a"},
		{raw: "TADS_ESP", want: "tads_esp"},
		{raw: "", wantErr: true},
		{raw: "iiw 24a", wantErr: true},
		{raw: "iiw/24a", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := CleanClassID(tt.raw)
			if tt.wantErr {
				var valErr *core.ValidationError
				if assert.True(t, errors.As(err, &valErr)) {
					assert.Equal(t, "classId", valErr.Fields[0].Field)
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
