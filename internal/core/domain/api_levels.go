package domain

// apiLevels maps platform codenames to their API level.
var apiLevels = map[string]int{
	"G":       9,
	"I":       14,
	"J":       16,
	"J-MR1":   17,
	"J-MR2":   18,
	"K":       19,
	"L":       21,
	"L-MR1":   22,
	"M":       23,
	"N":       24,
	"N-MR1":   25,
	"O":       26,
	"O-MR1":   27,
	"P":       28,
	"Q":       29,
	"R":       30,
	"S":       31,
	"S-V2":    32,
	"T":       33,
	"U":       34,
	"V":       35,
	"Baklava": 36,
}

// APILevelForCodename returns the API level of a platform codename.
func APILevelForCodename(codename string) (int, bool) {
	level, ok := apiLevels[codename]
	return level, ok
}
