package main

import "context"

// Achievement definitions
type AchievementDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"desc"`
}

var Achievements = []AchievementDef{
	{"first_blood", "First Blood", "Get your first kill"},
	{"sharpshooter", "Sharpshooter", "Reach 100 total kills"},
	{"centurion", "Centurion", "Reach 1000 total kills"},
	{"boss_slayer", "Boss Slayer", "Reach wave 11"},
	{"survivor", "Survivor", "Reach wave 20"},
	{"veteran", "Veteran", "Play 10 games"},
}

// AchievementStore is the persistence CheckAchievements needs
type AchievementStore interface {
	GetPlayer(ctx context.Context, pseudo string) (*PlayerRow, error)
	GetAchievements(ctx context.Context, pseudo string) ([]string, error)
	UnlockAchievement(ctx context.Context, pseudo, id string) (bool, error)
}

// CheckAchievements checks if any new achievements should be unlocked after
// a recorded run that reached wave. Returns the newly unlocked ones.
func CheckAchievements(ctx context.Context, db AchievementStore, pseudo string, wave int) []AchievementDef {
	if db == nil || pseudo == "" {
		return nil
	}

	p, err := db.GetPlayer(ctx, pseudo)
	if err != nil || p == nil {
		return nil
	}

	existing, err := db.GetAchievements(ctx, pseudo)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, a := range existing {
		has[a] = true
	}

	var unlocked []AchievementDef

	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_blood":
			return p.TotalKills >= 1
		case "sharpshooter":
			return p.TotalKills >= 100
		case "centurion":
			return p.TotalKills >= 1000
		case "boss_slayer":
			return wave > 10
		case "survivor":
			return wave >= 20
		case "veteran":
			return p.TotalGames >= 10
		}
		return false
	}

	for _, def := range Achievements {
		if check(def.ID) {
			if newlyUnlocked, err := db.UnlockAchievement(ctx, pseudo, def.ID); err == nil && newlyUnlocked {
				unlocked = append(unlocked, def)
			}
		}
	}

	return unlocked
}
