package domain

import "fmt"

// Species recorded in sightings and harvests.
const (
	SpeciesRedDeer    = "Rotwild"
	SpeciesRoeDeer    = "Rehwild"
	SpeciesWildBoar   = "Schwarzwild"
	SpeciesFallowDeer = "Damwild"
	SpeciesMouflon    = "Muffelwild"
	SpeciesChamois    = "Gamswild"
	SpeciesHare       = "Feldhase"
	SpeciesRabbit     = "Wildkaninchen"
	SpeciesFox        = "Fuchs"
	SpeciesBadger     = "Dachs"
	SpeciesMarten     = "Marder"
	SpeciesRaccoon    = "Waschbaer"
	SpeciesNutria     = "Nutria"
	SpeciesPheasant   = "Fasan"
	SpeciesPartridge  = "Rebhuhn"
	SpeciesDuck       = "Wildente"
	SpeciesGoose      = "Wildgans"
	SpeciesPigeon     = "Tauben"
	SpeciesOther      = "Sonstiges"
	SpeciesAll        = "alle"
)

var species = []string{
	SpeciesRedDeer, SpeciesRoeDeer, SpeciesWildBoar, SpeciesFallowDeer, SpeciesMouflon,
	SpeciesChamois, SpeciesHare, SpeciesRabbit, SpeciesFox, SpeciesBadger, SpeciesMarten,
	SpeciesRaccoon, SpeciesNutria, SpeciesPheasant, SpeciesPartridge, SpeciesDuck,
	SpeciesGoose, SpeciesPigeon, SpeciesOther,
}

func AllSpecies() []string {
	return append([]string(nil), species...)
}

func ValidateSpecies(s string) error {
	for _, known := range species {
		if known == s {
			return nil
		}
	}
	return fmt.Errorf("unknown species: %q", s)
}

type Sex string

const (
	SexMale    Sex = "maennlich"
	SexFemale  Sex = "weiblich"
	SexUnknown Sex = "unbekannt"
)

func (s Sex) Validate() error {
	switch s {
	case SexMale, SexFemale, SexUnknown:
		return nil
	default:
		return fmt.Errorf("unknown sex: %q", s)
	}
}

type Behavior string

const (
	BehaviorFeeding  Behavior = "aesend"
	BehaviorMoving   Behavior = "ziehend"
	BehaviorFleeing  Behavior = "fliehend"
	BehaviorResting  Behavior = "ruhend"
	BehaviorFighting Behavior = "kaempfend"
	BehaviorOther    Behavior = "sonstiges"
)

func (b Behavior) Validate() error {
	switch b {
	case BehaviorFeeding, BehaviorMoving, BehaviorFleeing, BehaviorResting, BehaviorFighting, BehaviorOther:
		return nil
	default:
		return fmt.Errorf("unknown behavior: %q", b)
	}
}

var windDirections = []string{"N", "NO", "O", "SO", "S", "SW", "W", "NW"}

func ValidateWindDirection(d string) error {
	for _, known := range windDirections {
		if known == d {
			return nil
		}
	}
	return fmt.Errorf("unknown wind direction: %q", d)
}
