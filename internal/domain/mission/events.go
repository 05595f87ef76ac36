package mission

const (
	EventMissionStarted     = "mission.started"
	EventObjectiveCompleted = "mission.objective_completed"
	EventMissionCompleted   = "mission.completed"
	EventMissionFailed      = "mission.failed"
	EventMissionUnlocked    = "mission.unlocked"
)

type MissionStarted struct{ Mission Mission }

type ObjectiveCompleted struct {
	Mission     Mission
	ObjectiveID string
}

// MissionCompleted carries the rewards owed to Mission.BusinessID
type MissionCompleted struct{ Mission Mission }

type MissionFailed struct{ Mission Mission }

// MissionUnlocked is published when the last prerequisite of a mission completes
type MissionUnlocked struct{ Mission Mission }

func (MissionStarted) EventName() string     { return EventMissionStarted }
func (ObjectiveCompleted) EventName() string { return EventObjectiveCompleted }
func (MissionCompleted) EventName() string   { return EventMissionCompleted }
func (MissionFailed) EventName() string      { return EventMissionFailed }
func (MissionUnlocked) EventName() string    { return EventMissionUnlocked }
