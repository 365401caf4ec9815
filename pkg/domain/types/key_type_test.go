package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/trio/pkg/domain/types"
)

func TestParseKeyType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.KeyType
		wantErr bool
	}{
		{"int", "int", types.KeyTypeInt, false},
		{"string", "string", types.KeyTypeString, false},
		{"empty defaults to int", "", types.KeyTypeInt, false},
		{"unknown", "uuid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseKeyType(tt.input)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.Format
		wantErr bool
	}{
		{"list", "list", types.FormatList, false},
		{"map", "map", types.FormatMap, false},
		{"empty defaults to list", "", types.FormatList, false},
		{"unknown", "yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseFormat(tt.input)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.Backend
		wantErr bool
	}{
		{"file", "file", types.BackendFile, false},
		{"gcs", "gcs", types.BackendGCS, false},
		{"firestore", "firestore", types.BackendFirestore, false},
		{"empty defaults to file", "", types.BackendFile, false},
		{"unknown", "s3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseBackend(tt.input)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestKeyType_IsValid(t *testing.T) {
	for _, k := range types.AllKeyTypes() {
		gt.B(t, k.IsValid()).True()
	}
	for _, f := range types.AllFormats() {
		gt.B(t, f.IsValid()).True()
	}
	for _, b := range types.AllBackends() {
		gt.B(t, b.IsValid()).True()
	}
	gt.B(t, types.KeyType("").IsValid()).False()
}
