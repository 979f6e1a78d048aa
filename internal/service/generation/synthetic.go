package generation

import (
	"fmt"
	"math/rand"
	"time"
)

// Fixed reference pools for the demo path. Real deployments disable synthetic
// data and supply per-card template fields instead.
var (
	syntheticFirstNames = []string{
		"Maria", "Jose", "Ana", "Juan", "Rosa", "Pedro", "Carmen", "Luis",
		"Elena", "Miguel", "Sofia", "Carlos", "Isabella", "Fernando", "Lucia",
	}

	syntheticLastNames = []string{
		"Santos", "Reyes", "Cruz", "Bautista", "Ocampo", "Garcia", "Mendoza",
		"Torres", "Flores", "Morales", "Rivera", "Gomez", "Hernandez", "Lopez", "Gonzalez",
	}

	syntheticPhonePrefixes = []string{
		"0917", "0918", "0919", "0920", "0921", "0922", "0923", "0924", "0925", "0926",
	}
)

const syntheticAddress = "Philippines"

func syntheticName() string {
	first := syntheticFirstNames[rand.Intn(len(syntheticFirstNames))]
	last := syntheticLastNames[rand.Intn(len(syntheticLastNames))]
	return first + " " + last
}

func syntheticBirthDate() string {
	start := time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2005, time.December, 31, 0, 0, 0, 0, time.UTC)
	d := start.Add(time.Duration(rand.Int63n(int64(end.Sub(start)))))
	return d.Format("2006-01-02")
}

func syntheticPhoneNumber() string {
	prefix := syntheticPhonePrefixes[rand.Intn(len(syntheticPhonePrefixes))]
	return fmt.Sprintf("%s%07d", prefix, 1000000+rand.Intn(9000000))
}
