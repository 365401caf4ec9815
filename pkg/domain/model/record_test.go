package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/trio/pkg/domain/model"
)

func TestNewRecord(t *testing.T) {
	tests := []struct {
		name        string
		description string
		briefing    string
		wantErr     bool
	}{
		{"valid", "Lion", "A wild carnivorous animal", false},
		{"empty description", "", "A wild carnivorous animal", true},
		{"blank description", "   ", "A wild carnivorous animal", true},
		{"empty briefing", "Lion", "", true},
		{"blank briefing", "Lion", "\t\n", true},
		{"invalid UTF-8 description", "ab\xffcd", "A wild carnivorous animal", true},
		{"invalid UTF-8 briefing", "Lion", "\xc3\x28", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := model.NewRecord[int64](101, tt.description, tt.briefing)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				gt.Error(t, err).Is(model.ErrValidation)
				gt.Value(t, r).Nil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, r.ID()).Equal(int64(101))
			gt.Value(t, r.Description()).Equal(tt.description)
			gt.Value(t, r.Briefing()).Equal(tt.briefing)
		})
	}
}

func TestRecord_Setters(t *testing.T) {
	r, err := model.NewRecord("103", "Shark", "A large marine predator")
	gt.NoError(t, err).Required()

	t.Run("updates description", func(t *testing.T) {
		gt.NoError(t, r.SetDescription("Great white shark"))
		gt.Value(t, r.Description()).Equal("Great white shark")
	})

	t.Run("updates briefing", func(t *testing.T) {
		gt.NoError(t, r.SetBriefing("Known for its sharp teeth"))
		gt.Value(t, r.Briefing()).Equal("Known for its sharp teeth")
	})

	t.Run("rejects empty values and keeps state", func(t *testing.T) {
		err := r.SetDescription(" ")
		gt.Error(t, err).Is(model.ErrValidation)
		gt.Value(t, r.Description()).Equal("Great white shark")

		err = r.SetBriefing("")
		gt.Error(t, err).Is(model.ErrValidation)
		gt.Value(t, r.Briefing()).Equal("Known for its sharp teeth")
	})
}

func TestRecord_Match(t *testing.T) {
	r, err := model.NewRecord[int64](201, "Elephant", "A large mammal")
	gt.NoError(t, err).Required()

	gt.Bool(t, r.Matches("large")).True()
	gt.Bool(t, r.Matches("Eleph")).True()
	gt.Bool(t, r.Matches("Large")).False()
	gt.Bool(t, r.HasPrefix("A l")).True()
	gt.Bool(t, r.HasPrefix("Ele")).True()
	gt.Bool(t, r.HasPrefix("large")).False()
}

func TestRecord_CloneAndEqual(t *testing.T) {
	r, err := model.NewRecord[int64](1, "a", "b")
	gt.NoError(t, err).Required()

	c := r.Clone()
	gt.Bool(t, r.Equal(c)).True()

	gt.NoError(t, c.SetDescription("changed"))
	gt.Bool(t, r.Equal(c)).False()
	gt.Value(t, r.Description()).Equal("a")
}

func TestRecord_String(t *testing.T) {
	r, err := model.NewRecord[int64](102, "Eagle", "A powerful bird of prey")
	gt.NoError(t, err).Required()
	gt.Value(t, r.String()).Equal("Entry{id=102, description='Eagle', briefing='A powerful bird of prey'}")
}

func TestNewTextID(t *testing.T) {
	id1 := model.NewTextID()
	id2 := model.NewTextID()

	gt.Value(t, id1).NotEqual("")
	gt.Value(t, id1).NotEqual(id2)
}
