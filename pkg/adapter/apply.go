package adapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapmeta/pkg/schema"
)

// ApplyResult lists the tables created and skipped by Apply.
type ApplyResult struct {
	Created []string
	Skipped []string
}

// Apply creates every concrete table of reg that does not yet exist in the
// database behind a. Tables are rendered with the adapter's profile and
// created in declaration order. Abstract tables are never created.
func Apply(ctx context.Context, a Adapter, reg *schema.Registry, logger *slog.Logger) (*ApplyResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	profile := a.Profile()
	res := &ApplyResult{}

	for _, t := range reg.Tables() {
		if t.Abstract() {
			continue
		}

		exists, err := a.TableExists(ctx, t.ShortName())
		if err != nil {
			return res, fmt.Errorf("failed to check table %s: %w", t.ShortName(), err)
		}
		if exists {
			logger.Debug("table exists", slog.String("table", t.ShortName()))
			res.Skipped = append(res.Skipped, t.ShortName())
			continue
		}

		ddl, err := t.Render(profile)
		if err != nil {
			return res, err
		}
		if err := a.Exec(ctx, ddl); err != nil {
			return res, fmt.Errorf("failed to create table %s: %w", t.ShortName(), err)
		}
		logger.Info("table created", slog.String("table", t.ShortName()), slog.String("profile", profile.Name))
		res.Created = append(res.Created, t.ShortName())
	}
	return res, nil
}
