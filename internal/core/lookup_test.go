package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/spot/internal/model"
)

func TestLookupByID(t *testing.T) {
	events := []model.Event{
		{ID: "01AAAAAAAAAAAAAAAAAAAAAAAA", Label: "scratchpad"},
		{ID: "01BBBBBBBBBBBBBBBBBBBBBBBB", Label: "notes"},
		{ID: "01CCCCCCCCCCCCCCCCCCCCCCCC", Label: "terminal"},
	}

	t.Run("found", func(t *testing.T) {
		result := LookupByID(events, "01BBBBBBBBBBBBBBBBBBBBBBBB")
		assert.NotNil(t, result)
		assert.Equal(t, "notes", result.Label)
	})

	t.Run("not found", func(t *testing.T) {
		result := LookupByID(events, "01ZZZZZZZZZZZZZZZZZZZZZZZZ")
		assert.Nil(t, result)
	})

	t.Run("empty slice", func(t *testing.T) {
		result := LookupByID(nil, "01AAAAAAAAAAAAAAAAAAAAAAAA")
		assert.Nil(t, result)
	})
}

func TestLookupByPrefix(t *testing.T) {
	events := []model.Event{
		{ID: "01HQAAAAXXXXXXXXXXXXXXXXXX", Label: "scratchpad"},
		{ID: "01HQAAABXXXXXXXXXXXXXXXXXX", Label: "notes"},
		{ID: "01HQBBBBXXXXXXXXXXXXXXXXXX", Label: "terminal"},
	}

	t.Run("unique prefix", func(t *testing.T) {
		result, ambiguous := LookupByPrefix(events, "01HQB")
		assert.False(t, ambiguous)
		assert.NotNil(t, result)
		assert.Equal(t, "terminal", result.Label)
	})

	t.Run("lowercase prefix matches", func(t *testing.T) {
		result, ambiguous := LookupByPrefix(events, "01hqb")
		assert.False(t, ambiguous)
		assert.NotNil(t, result)
		assert.Equal(t, "terminal", result.Label)
	})

	t.Run("full id", func(t *testing.T) {
		result, ambiguous := LookupByPrefix(events, "01HQAAABXXXXXXXXXXXXXXXXXX")
		assert.False(t, ambiguous)
		assert.NotNil(t, result)
		assert.Equal(t, "notes", result.Label)
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		result, ambiguous := LookupByPrefix(events, "01HQAAA")
		assert.True(t, ambiguous)
		assert.Nil(t, result)
	})

	t.Run("no match", func(t *testing.T) {
		result, ambiguous := LookupByPrefix(events, "02")
		assert.False(t, ambiguous)
		assert.Nil(t, result)
	})

	t.Run("empty prefix", func(t *testing.T) {
		result, ambiguous := LookupByPrefix(events, "")
		assert.False(t, ambiguous)
		assert.Nil(t, result)
	})

	t.Run("empty slice", func(t *testing.T) {
		result, ambiguous := LookupByPrefix(nil, "01")
		assert.False(t, ambiguous)
		assert.Nil(t, result)
	})
}

func TestLookupByIndex(t *testing.T) {
	events := []model.Event{
		{ID: "1", Label: "scratchpad"},
		{ID: "2", Label: "notes"},
		{ID: "3", Label: "terminal"},
	}

	t.Run("valid index 1", func(t *testing.T) {
		result := LookupByIndex(events, 1)
		assert.NotNil(t, result)
		assert.Equal(t, "scratchpad", result.Label)
	})

	t.Run("valid index 3", func(t *testing.T) {
		result := LookupByIndex(events, 3)
		assert.NotNil(t, result)
		assert.Equal(t, "terminal", result.Label)
	})

	t.Run("index 0 out of bounds", func(t *testing.T) {
		result := LookupByIndex(events, 0)
		assert.Nil(t, result)
	})

	t.Run("negative index", func(t *testing.T) {
		result := LookupByIndex(events, -1)
		assert.Nil(t, result)
	})

	t.Run("index too high", func(t *testing.T) {
		result := LookupByIndex(events, 10)
		assert.Nil(t, result)
	})

	t.Run("empty slice", func(t *testing.T) {
		result := LookupByIndex(nil, 1)
		assert.Nil(t, result)
	})
}

func TestSearch(t *testing.T) {
	events := []model.Event{
		{ID: "1", Label: "scratchpad", Kind: model.EventShown, Source: model.SourceShortcut},
		{ID: "2", Label: "notes", Kind: model.EventHidden, Source: model.SourceFocusLoss},
		{ID: "3", Label: "terminal", Kind: model.EventShown, Source: model.SourceDBus},
	}

	t.Run("match in label", func(t *testing.T) {
		result := Search(events, "scratch")
		assert.Len(t, result, 1)
		assert.Equal(t, "1", result[0].ID)
	})

	t.Run("match in kind", func(t *testing.T) {
		result := Search(events, "shown")
		assert.Len(t, result, 2)
	})

	t.Run("match in source", func(t *testing.T) {
		result := Search(events, "focus")
		assert.Len(t, result, 1)
		assert.Equal(t, "2", result[0].ID)
	})

	t.Run("case insensitive", func(t *testing.T) {
		result := Search(events, "TERMINAL")
		assert.Len(t, result, 1)
		assert.Equal(t, "3", result[0].ID)
	})

	t.Run("no matches", func(t *testing.T) {
		result := Search(events, "xyz123")
		assert.Len(t, result, 0)
	})

	t.Run("empty search term returns all", func(t *testing.T) {
		result := Search(events, "")
		assert.Len(t, result, 3)
	})
}

func TestUniqueLabels(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		events := []model.Event{
			{Label: "notes"},
			{Label: "terminal"},
			{Label: "notes"},
			{Label: "calculator"},
		}

		labels := UniqueLabels(events)
		assert.Len(t, labels, 3)
		assert.Equal(t, "calculator", labels[0])
		assert.Equal(t, "notes", labels[1])
		assert.Equal(t, "terminal", labels[2])
	})

	t.Run("empty labels excluded", func(t *testing.T) {
		events := []model.Event{
			{Label: "notes", Kind: model.EventShown},
			{Label: "", Kind: model.EventHideAll},
			{Label: "terminal", Kind: model.EventShown},
		}

		labels := UniqueLabels(events)
		assert.Len(t, labels, 2)
	})

	t.Run("empty slice", func(t *testing.T) {
		labels := UniqueLabels(nil)
		assert.Len(t, labels, 0)
	})
}
