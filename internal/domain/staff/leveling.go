package staff

// Cumulative experience needed to reach a level. Experience is never spent,
// so each threshold is compared against the running total.
var levelThresholds = map[int]int{
	2: 50,
	3: 150,
	4: 300,
	5: 500,
}

const experiencePerLevelAfterFive = 200

// RequiredExperienceForLevel returns the cumulative experience at which a
// worker reaches level
func RequiredExperienceForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if xp, ok := levelThresholds[level]; ok {
		return xp
	}
	return levelThresholds[5] + (level-5)*experiencePerLevelAfterFive
}

// LevelForExperience returns the highest level whose threshold experience meets
func LevelForExperience(experience int) int {
	level := 1
	for experience >= RequiredExperienceForLevel(level+1) {
		level++
	}
	return level
}
