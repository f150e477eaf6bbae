package goals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitquest/habitquest/habitquest/database/models"
)

func TestTemplateCatalog(t *testing.T) {
	require.NotEmpty(t, Templates)

	seen := make(map[string]bool)
	for _, tpl := range Templates {
		assert.NotEmpty(t, tpl.ID)
		assert.NotEmpty(t, tpl.Name)
		assert.False(t, seen[tpl.ID], "duplicate template id %s", tpl.ID)
		seen[tpl.ID] = true

		require.NotEmpty(t, tpl.Habits, "template %s has no habits", tpl.ID)
		for _, h := range tpl.Habits {
			assert.NotEmpty(t, h.Name)
			assert.True(t, models.ValidFrequency(h.Frequency),
				"template %s habit %q has frequency %q", tpl.ID, h.Name, h.Frequency)
		}
	}
}

func TestFindTemplate(t *testing.T) {
	tpl, ok := FindTemplate("tpl_fitness_starter")
	require.True(t, ok)
	assert.Equal(t, "Fitness Starter Pack", tpl.Name)

	_, ok = FindTemplate("tpl_does_not_exist")
	assert.False(t, ok)
}
