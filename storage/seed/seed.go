// Package seed embeds a small fixture dataset used as a read-only fallback
// when the live document store is unreachable, and as the source for the
// importseed admin command.
package seed

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

//go:embed fixtures.json
var fixturesJSON []byte

type dataset struct {
	Students  []student.Student   `json:"students"`
	Materials []material.Material `json:"materials"`
}

var (
	data     dataset
	loadOnce sync.Once
)

func load() {
	loadOnce.Do(func() {
		if err := json.Unmarshal(fixturesJSON, &data); err != nil {
			panic("seed: invalid fixtures.json: " + err.Error())
		}
	})
}

// Dataset returns copies of the embedded students and materials.
func Dataset() ([]student.Student, []material.Material) {
	load()
	stds := make([]student.Student, len(data.Students))
	copy(stds, data.Students)
	mats := make([]material.Material, len(data.Materials))
	copy(mats, data.Materials)
	return stds, mats
}
