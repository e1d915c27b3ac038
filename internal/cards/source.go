package cards

import "fmt"

// Source supplies champion records per faction. The real data source lives
// outside this server; StaticSource covers local play and tests.
type Source interface {
	FactionChampions(factionID string) ([]ChampionRecord, error)
}

// StaticSource is an in-memory champion source.
type StaticSource struct {
	factions map[string][]ChampionRecord
}

// NewStaticSource copies the given faction table.
func NewStaticSource(factions map[string][]ChampionRecord) *StaticSource {
	s := &StaticSource{factions: make(map[string][]ChampionRecord, len(factions))}
	for id, recs := range factions {
		s.factions[id] = append([]ChampionRecord(nil), recs...)
	}
	return s
}

// FactionChampions returns the records for one faction.
func (s *StaticSource) FactionChampions(factionID string) ([]ChampionRecord, error) {
	recs, ok := s.factions[factionID]
	if !ok {
		return nil, fmt.Errorf("unknown faction %q", factionID)
	}
	return append([]ChampionRecord(nil), recs...), nil
}

// DefaultSource returns the built-in factions used when no external
// champion source is configured. Twelve champions per faction keeps the
// draft pool deep enough for a full match.
func DefaultSource() *StaticSource {
	return NewStaticSource(map[string][]ChampionRecord{
		"emberfall": {
			{ID: "pyra", Name: "Pyra", ReturnRate: 0.92, StabilityScore: 0.31},
			{ID: "ashmark", Name: "Ashmark", ReturnRate: 0.85, StabilityScore: 0.22},
			{ID: "cinderlord", Name: "Cinderlord", ReturnRate: 0.78, StabilityScore: 0.45},
			{ID: "scorchwing", Name: "Scorchwing", ReturnRate: 0.88, StabilityScore: 0.38},
			{ID: "flareheart", Name: "Flareheart", ReturnRate: 0.64, StabilityScore: 0.59},
			{ID: "emberseer", Name: "Emberseer", ReturnRate: 0.55, StabilityScore: 0.52},
			{ID: "blazeguard", Name: "Blazeguard", ReturnRate: 0.41, StabilityScore: 0.83},
			{ID: "magmaroot", Name: "Magmaroot", ReturnRate: 0.35, StabilityScore: 0.91},
			{ID: "smolder", Name: "Smolder", ReturnRate: 0.58, StabilityScore: 0.61},
			{ID: "ignis", Name: "Ignis", ReturnRate: 0.74, StabilityScore: 0.69},
			{ID: "charfiend", Name: "Charfiend", ReturnRate: 0.96, StabilityScore: 0.27},
			{ID: "kilnwarden", Name: "Kilnwarden", ReturnRate: 0.29, StabilityScore: 0.88},
		},
		"tidebound": {
			{ID: "maris", Name: "Maris", ReturnRate: 0.47, StabilityScore: 0.89},
			{ID: "deepcaller", Name: "Deepcaller", ReturnRate: 0.39, StabilityScore: 0.94},
			{ID: "wavelash", Name: "Wavelash", ReturnRate: 0.87, StabilityScore: 0.33},
			{ID: "brinefang", Name: "Brinefang", ReturnRate: 0.81, StabilityScore: 0.41},
			{ID: "coralwarden", Name: "Coralwarden", ReturnRate: 0.36, StabilityScore: 0.86},
			{ID: "riptide", Name: "Riptide", ReturnRate: 0.91, StabilityScore: 0.24},
			{ID: "mistveil", Name: "Mistveil", ReturnRate: 0.57, StabilityScore: 0.63},
			{ID: "undertow", Name: "Undertow", ReturnRate: 0.66, StabilityScore: 0.58},
			{ID: "pearlkeeper", Name: "Pearlkeeper", ReturnRate: 0.31, StabilityScore: 0.79},
			{ID: "stormsurge", Name: "Stormsurge", ReturnRate: 0.84, StabilityScore: 0.49},
			{ID: "abysswatch", Name: "Abysswatch", ReturnRate: 0.44, StabilityScore: 0.97},
			{ID: "tidecaller", Name: "Tidecaller", ReturnRate: 0.62, StabilityScore: 0.55},
		},
		"verdant": {
			{ID: "thornveil", Name: "Thornveil", ReturnRate: 0.42, StabilityScore: 0.87},
			{ID: "oakfather", Name: "Oakfather", ReturnRate: 0.33, StabilityScore: 0.95},
			{ID: "bramblefist", Name: "Bramblefist", ReturnRate: 0.69, StabilityScore: 0.64},
			{ID: "sporeling", Name: "Sporeling", ReturnRate: 0.52, StabilityScore: 0.48},
			{ID: "wildrunner", Name: "Wildrunner", ReturnRate: 0.89, StabilityScore: 0.29},
			{ID: "rootbinder", Name: "Rootbinder", ReturnRate: 0.38, StabilityScore: 0.82},
			{ID: "fernshade", Name: "Fernshade", ReturnRate: 0.61, StabilityScore: 0.57},
			{ID: "galeleaf", Name: "Galeleaf", ReturnRate: 0.93, StabilityScore: 0.35},
			{ID: "mosshide", Name: "Mosshide", ReturnRate: 0.46, StabilityScore: 0.73},
			{ID: "sunroot", Name: "Sunroot", ReturnRate: 0.71, StabilityScore: 0.66},
			{ID: "briarheart", Name: "Briarheart", ReturnRate: 0.83, StabilityScore: 0.44},
			{ID: "grovekeeper", Name: "Grovekeeper", ReturnRate: 0.27, StabilityScore: 0.92},
		},
	})
}
