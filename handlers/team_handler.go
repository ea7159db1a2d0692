package handlers

import (
	"log/slog"

	"rayob-cms/helper"
	"rayob-cms/models"
	"rayob-cms/repositories"
	"rayob-cms/slug"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	*OrderedHandler[models.TeamMember]
	resolver *slug.Resolver
	log      *slog.Logger
}

func NewTeamHandler(repo repositories.OrderedRepository[models.TeamMember], resolver *slug.Resolver, h *helper.HTTPHelper, log *slog.Logger) *TeamHandler {
	return &TeamHandler{
		OrderedHandler: NewOrderedHandler(repo, h),
		resolver:       resolver,
		log:            log,
	}
}

// GetBySlug finds a team member whose name matches the slug under the
// configured strategies.
func (h *TeamHandler) GetBySlug(c *gin.Context) {
	requested := c.Param("slug")

	members, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}

	i, strategy, ok := h.resolver.Resolve(requested, names)
	if !ok {
		h.Helper.SendError(c, &models.Error{Kind: models.KindNotFound, Message: "team member not found"})
		return
	}
	h.log.Debug("team slug resolved", "slug", requested, "strategy", strategy, "id", members[i].ID)
	h.Helper.SendSuccess(c, members[i])
}
