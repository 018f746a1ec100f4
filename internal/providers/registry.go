package providers

import (
	"github.com/samber/lo"

	"github.com/openquota/openquota/internal/core"
	"github.com/openquota/openquota/internal/providers/claudeweb"
	"github.com/openquota/openquota/internal/providers/codex"
	"github.com/openquota/openquota/internal/providers/glm"
)

func All() []core.Provider {
	return []core.Provider{
		claudeweb.New(),
		glm.New(),
		codex.New(),
	}
}

func IDs() []string {
	return lo.Map(All(), func(p core.Provider, _ int) string {
		return p.ID()
	})
}

func ByID(id string) (core.Provider, bool) {
	return lo.Find(All(), func(p core.Provider) bool {
		return p.ID() == id
	})
}
