// Package tracker implements Trackers, which track and save data
// generated while rolling out episodes
package tracker

import (
	"encoding/gob"
	"log"
	"os"

	ts "github.com/golocate/golocate/timestep"
)

// Interface Tracker keeps track of rollout data and saves the data
// after the rollout has finished
type Tracker interface {
	Track(t ts.TimeStep)
	Save()
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) []float64 {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalf("could not open data file: %v", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []float64

	err = dec.Decode(&data)
	if err != nil {
		log.Fatalf("could not decode data: %v", err)
	}

	return data
}

// save gob-encodes data to a new file at filename
func save(filename string, data interface{}) {
	file, err := os.Create(filename)
	if err != nil {
		log.Fatalf("could not open save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err = en.Encode(data); err != nil {
		log.Fatalf("could not encode tracked data: %v", err)
	}
}
