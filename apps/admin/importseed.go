package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
	"github.com/trezcool/somo/storage/seed"
)

// importSeed loads the embedded fixture dataset into the document store.
// Existing records are left untouched.
func (cli *commandLine) importSeed() error {
	ctx := context.Background()
	stds, mats := seed.Dataset()

	var created int
	for _, std := range stds {
		if _, err := cli.studentRepo.Create(ctx, std); err != nil {
			if errors.Cause(err) == student.ErrIDExists {
				continue
			}
			return errors.Wrapf(err, "importing student %s", std.ID)
		}
		created++
	}
	fmt.Printf("imported %d/%d students\n", created, len(stds))

	created = 0
	for _, mat := range mats {
		if _, err := cli.materialRepo.Create(ctx, mat); err != nil {
			if errors.Cause(err) == material.ErrIDExists {
				continue
			}
			return errors.Wrapf(err, "importing material %s", mat.ID)
		}
		created++
	}
	fmt.Printf("imported %d/%d materials\n", created, len(mats))
	return nil
}
