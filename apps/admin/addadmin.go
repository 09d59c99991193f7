package main

import (
	"context"
	"time"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/admin"
)

// addAdmin updates or creates an active admin.Admin with the given password.
func (cli *commandLine) addAdmin(name, email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	adm, err := cli.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if err != admin.ErrNotFound {
			return err
		}
		adm = admin.Admin{
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	if name != "" {
		adm.Name = core.CleanString(name)
	}
	adm.IsActive = true
	if err = adm.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.adminRepo.UpdateOrCreate(ctx, adm)
	return err
}
