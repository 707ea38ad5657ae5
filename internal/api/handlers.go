package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/waabox/devopswatch/internal/domain"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) listSystems(c *fiber.Ctx) error {
	return c.JSON(s.systems)
}

// listStatuses returns every stored snapshot. ?status=fail keeps only matching records.
func (s *Server) listStatuses(c *fiber.Ctx) error {
	snapshots := s.store.All()
	if raw := c.Query("status"); raw != "" {
		want, err := domain.ParseStatus(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		for i := range snapshots {
			snapshots[i].Statuses = filterStatuses(snapshots[i].Statuses, want)
		}
	}
	return c.JSON(snapshots)
}

func (s *Server) systemStatuses(c *fiber.Ctx) error {
	id := c.Params("id")
	if !s.knownSystem(id) {
		return fiber.NewError(fiber.StatusNotFound, "unknown system "+id)
	}
	snap, ok := s.store.Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusServiceUnavailable, "system "+id+" has not been polled yet")
	}
	return c.JSON(snap)
}

func (s *Server) triggerRefresh(c *fiber.Ctx) error {
	return c.JSON(s.refresh.PollOnce(c.UserContext()))
}

func (s *Server) knownSystem(id string) bool {
	for _, sys := range s.systems {
		if sys.ID == id {
			return true
		}
	}
	return false
}

func filterStatuses(statuses []domain.StatusInformation, want domain.Status) []domain.StatusInformation {
	out := make([]domain.StatusInformation, 0, len(statuses))
	for _, st := range statuses {
		if st.Status == want {
			out = append(out, st)
		}
	}
	return out
}
