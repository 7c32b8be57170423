package memory

import (
	"context"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"
)

type HoursLedger struct{ s *Store }

var _ interfaces.IHoursLedger = (*HoursLedger)(nil)

func (s *Store) Ledger() *HoursLedger { return &HoursLedger{s} }

// current returns the stored project if it is still at the caller's version.
func (l *HoursLedger) current(project entities.Project) (entities.Project, error) {
	if !l.s.projects.exists(project.ID) {
		return entities.Project{}, interfaces.ErrConflict
	}
	stored := l.s.projects.get(project.ID)
	if stored.Version != project.Version {
		return entities.Project{}, interfaces.ErrConflict
	}
	return stored, nil
}

func (l *HoursLedger) LogTimesheet(_ context.Context, project entities.Project, ts entities.Timesheet, hoursLogged float64) (entities.Project, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	stored, err := l.current(project)
	if err != nil {
		return entities.Project{}, err
	}
	if l.s.timesheets.exists(ts.ID) {
		return entities.Project{}, interfaces.ErrConflict
	}
	l.s.timesheets.put(ts)
	return l.setLogged(stored, hoursLogged), nil
}

func (l *HoursLedger) RemoveTimesheet(_ context.Context, project entities.Project, ts entities.Timesheet, hoursLogged float64) (entities.Project, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	stored, err := l.current(project)
	if err != nil {
		return entities.Project{}, err
	}
	if !l.s.timesheets.exists(ts.ID) {
		return entities.Project{}, interfaces.ErrConflict
	}
	l.s.timesheets.delete(ts.ID)
	return l.setLogged(stored, hoursLogged), nil
}

func (l *HoursLedger) ApproveTimeRequest(_ context.Context, project entities.Project, tr entities.TimeRequest, ts *entities.Timesheet, hoursLogged float64) (entities.Project, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	if !l.s.timeRequests.exists(tr.ID) {
		return entities.Project{}, interfaces.ErrConflict
	}
	prev := l.s.timeRequests.get(tr.ID)
	if prev.Version != tr.Version || !prev.Reviewable() {
		return entities.Project{}, interfaces.ErrConflict
	}

	var stored entities.Project
	if ts != nil {
		p, err := l.current(project)
		if err != nil {
			return entities.Project{}, err
		}
		if l.s.timesheets.exists(ts.ID) {
			return entities.Project{}, interfaces.ErrConflict
		}
		stored = p
	} else {
		if !l.s.projects.exists(project.ID) {
			return entities.Project{}, interfaces.ErrConflict
		}
		stored = l.s.projects.get(project.ID)
	}

	tr.Version++
	l.s.timeRequests.put(tr)

	stored.AdditionalHours += tr.Hours
	stored.TotalAllocatedHours += tr.Hours
	if ts != nil {
		l.s.timesheets.put(*ts)
		return l.setLogged(stored, hoursLogged), nil
	}
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	l.s.projects.put(stored)
	return stored, nil
}

func (l *HoursLedger) setLogged(p entities.Project, hoursLogged float64) entities.Project {
	p.HoursLogged = hoursLogged
	p.Version++
	p.UpdatedAt = time.Now().UTC()
	l.s.projects.put(p)
	return p
}
