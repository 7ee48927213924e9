package service

import (
	"context"

	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/pkg/logger"
)

// maxListedMismatches caps how many mismatches are logged one by one.
const maxListedMismatches = 20

// Mismatch is a manager whose reported total differs from the sum of their
// gameweek scores.
type Mismatch struct {
	Team    string
	EntryID int
	Total   int
	SumGW   int
}

// Validate compares every manager's total with the sum of their gameweek
// scores. It never fails a build.
func Validate(managers []model.Manager) []Mismatch {
	var out []Mismatch
	for i := range managers {
		m := &managers[i]
		if sum := m.SumGW(); sum != m.Total {
			out = append(out, Mismatch{Team: m.TeamName, EntryID: m.EntryID, Total: m.Total, SumGW: sum})
		}
	}
	return out
}

func (s *Service) logMismatches(ctx context.Context, mm []Mismatch) {
	if len(mm) == 0 {
		s.logger.Info(ctx, "all totals match gameweek sums")
		return
	}
	s.logger.Warn(ctx, "totals differ from gameweek sums", logger.Int("managers", len(mm)))
	for i, m := range mm {
		if i == maxListedMismatches {
			s.logger.Warn(ctx, "more mismatches not listed", logger.Int("more", len(mm)-maxListedMismatches))
			return
		}
		s.logger.Warn(ctx, "total mismatch",
			logger.String("team", m.Team),
			logger.Int("entryID", m.EntryID),
			logger.Int("total", m.Total),
			logger.Int("sumGW", m.SumGW),
		)
	}
}
