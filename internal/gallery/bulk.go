package gallery

import (
	"context"
	"sort"
	"sync"

	"heritage-gallery/internal/domain/access"
)

// ConfirmFunc asks the user to confirm deleting the named records.
type ConfirmFunc func(titles []string) bool

// DeleteReport is the per-record outcome of a bulk delete.
type DeleteReport struct {
	Deleted []string
	Failed  map[string]error
}

// Eligible returns the selected records actor may mutate, in list order. The
// selection itself is left alone so the UI can show why actions are limited.
func (g *Gallery) Eligible(actor access.Actor) []Record {
	selected := g.Selected()
	out := make([]Record, 0, len(selected))
	for _, r := range selected {
		if g.CanMutate(actor, r) {
			out = append(out, r)
		}
	}
	return out
}

// BulkEdit returns the one record the edit form should open.
func (g *Gallery) BulkEdit(actor access.Actor) (Record, error) {
	eligible := g.Eligible(actor)
	switch len(eligible) {
	case 0:
		return Record{}, ErrNoPermission
	case 1:
		return eligible[0], nil
	default:
		return Record{}, ErrSelectOne
	}
}

// BulkDelete deletes every eligible selected record after confirmation. Calls
// run concurrently and independently; the ones that succeed are applied even
// if others fail.
func (g *Gallery) BulkDelete(ctx context.Context, actor access.Actor, confirm ConfirmFunc) (DeleteReport, error) {
	eligible := g.Eligible(actor)
	if len(eligible) == 0 {
		return DeleteReport{}, ErrNoPermission
	}

	titles := make([]string, len(eligible))
	for i, r := range eligible {
		titles[i] = r.Title()
	}
	if confirm != nil && !confirm(titles) {
		return DeleteReport{}, ErrCanceled
	}

	errs := make([]error, len(eligible))
	var wg sync.WaitGroup
	for i, r := range eligible {
		wg.Add(1)
		go func(i int, r Record) {
			defer wg.Done()
			errs[i] = g.source.Delete(ctx, r.Slug)
		}(i, r)
	}
	wg.Wait()

	report := DeleteReport{Failed: map[string]error{}}
	var cause error
	for i, r := range eligible {
		if errs[i] == nil {
			report.Deleted = append(report.Deleted, r.ID)
			continue
		}
		report.Failed[r.ID] = errs[i]
		if cause == nil || (!IsAuthorization(cause) && IsAuthorization(errs[i])) {
			cause = errs[i]
		}
	}

	g.ApplyDeleted(report.Deleted)

	if len(report.Failed) == 0 {
		return report, nil
	}

	g.log.Warn(ctx, "bulk delete partially failed",
		"deleted", len(report.Deleted), "failed", len(report.Failed), "error", cause)
	return report, &PartialFailureError{
		Succeeded: len(report.Deleted),
		Failed:    len(report.Failed),
		Cause:     cause,
	}
}

// FailedIDs lists the ids whose deletion did not go through.
func (r DeleteReport) FailedIDs() []string {
	out := make([]string, 0, len(r.Failed))
	for id := range r.Failed {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// AllFailed reports whether no deletion succeeded.
func (r DeleteReport) AllFailed() bool {
	return len(r.Deleted) == 0 && len(r.Failed) > 0
}
