package staff

import "github.com/andrescamacho/bizsim-go/internal/domain/shared"

// Snapshot is the serialisable state of a worker
type Snapshot struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Role           shared.StaffRole `json:"role"`
	BusinessID     string           `json:"business_id,omitempty"`
	Attributes     Attributes       `json:"attributes"`
	Shift          ShiftType        `json:"shift"`
	Experience     int              `json:"experience"`
	Level          int              `json:"level"`
	Skills         []string         `json:"skills,omitempty"`
	HourlyWage     float64          `json:"hourly_wage"`
	OnDuty         bool             `json:"on_duty"`
	Morale         float64          `json:"morale"`
	Fatigue        float64          `json:"fatigue"`
	State          State            `json:"state"`
	Task           *TaskRef         `json:"task,omitempty"`
	Progress       float64          `json:"progress"`
	Position       shared.Location  `json:"position"`
	ResumeState    State            `json:"resume_state,omitempty"`
	BreakRemaining float64          `json:"break_remaining,omitempty"`
	WalkSpeed      float64          `json:"walk_speed"`
}

// Snapshot copies the worker's state
func (w *Worker) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Snapshot{
		ID:             w.id,
		Name:           w.name,
		Role:           w.role,
		BusinessID:     w.businessID,
		Attributes:     w.attributes,
		Shift:          w.shift,
		Experience:     w.experience,
		Level:          w.level,
		Skills:         append([]string(nil), w.skills...),
		HourlyWage:     w.hourlyWage,
		OnDuty:         w.onDuty,
		Morale:         w.morale,
		Fatigue:        w.fatigue,
		State:          w.state,
		Progress:       w.progress,
		Position:       w.position,
		ResumeState:    w.resumeState,
		BreakRemaining: w.breakRemaining,
		WalkSpeed:      w.walkSpeed,
	}
	if w.task != nil {
		ref := *w.task
		if ref.Location != nil {
			loc := *ref.Location
			ref.Location = &loc
		}
		s.Task = &ref
	}
	return s
}

// ReconstructWorker rebuilds a worker from persistence. Nothing is rolled or
// recomputed; the level stored is trusted as-is.
func ReconstructWorker(s Snapshot, random shared.Random) *Worker {
	w := &Worker{
		id:             s.ID,
		name:           s.Name,
		role:           s.Role,
		businessID:     s.BusinessID,
		attributes:     s.Attributes.Clamped(),
		shift:          s.Shift,
		experience:     s.Experience,
		level:          s.Level,
		skills:         append(make([]string, 0, len(s.Skills)), s.Skills...),
		hourlyWage:     s.HourlyWage,
		onDuty:         s.OnDuty,
		morale:         clampCondition(s.Morale),
		fatigue:        clampCondition(s.Fatigue),
		state:          s.State,
		progress:       s.Progress,
		position:       s.Position,
		resumeState:    s.ResumeState,
		breakRemaining: s.BreakRemaining,
		walkSpeed:      s.WalkSpeed,
		random:         random,
	}
	if w.level < 1 {
		w.level = 1
	}
	if w.walkSpeed <= 0 {
		w.walkSpeed = DefaultWalkSpeed
	}
	if w.shift == "" {
		w.shift = ShiftOnCall
	}
	if s.Task != nil {
		ref := *s.Task
		if ref.Location != nil {
			loc := *ref.Location
			ref.Location = &loc
		}
		w.task = &ref
	}
	return w
}
