package main

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/fishmap/fishmap/pkg/auth/password"
	"github.com/fishmap/fishmap/pkg/domain"
	fdb "github.com/fishmap/fishmap/pkg/domain/fishmap/db"
	"github.com/spf13/cobra"
)

const envAdminPassword = "FISHMAP_ADMIN_PASSWORD"

func newAdminCommand(connect func(*cobra.Command) (fdb.Database, error)) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	adminCmd.AddCommand(
		newAdminCreateCommand(connect),
		newAdminListCommand(connect),
	)
	return adminCmd
}

func newAdminCreateCommand(connect func(*cobra.Command) (fdb.Database, error)) *cobra.Command {
	var (
		name   string
		phone  string
		email  string
		gender string
		role   string
		pass   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an active admin",
		Long: `Create an active admin.

Any role can be given, so the first super admin is created with this command.
The password is taken from --password, or $` + envAdminPassword + ` when the flag is omitted.`,
		Example: `  fishmapctl admin create --name "Budi" --email budi@example.com \
    --phone 081234567890 --gender male --role super_admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pass == "" {
				pass = os.Getenv(envAdminPassword)
			}
			param, err := adminParam(name, phone, email, gender, role, pass)
			if err != nil {
				return err
			}

			db, err := connect(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			a, err := db.Admins().Create(cmd.Context(), param)
			if err != nil {
				return err
			}
			cmd.Printf("admin is created: id=%d email=%s role=%s\n", a.Id, a.Email, a.Role)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "name of the admin (required)")
	flags.StringVar(&phone, "phone", "", "phone number (required)")
	flags.StringVar(&email, "email", "", "email address (required)")
	flags.StringVar(&gender, "gender", "", "male or female (required)")
	flags.StringVar(&role, "role", string(domain.AdminRoleCatalogModerator), "super_admin, admin or catalog_moderator")
	flags.StringVar(&pass, "password", "", "password. default: $"+envAdminPassword)
	for _, f := range []string{"name", "phone", "email", "gender"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

// adminParam validates inputs like the admin API does, and hashes the password.
func adminParam(name, phone, email, gender, role, pass string) (domain.AdminParam, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if pass == "" {
		return domain.AdminParam{}, errors.New("password is required. use --password or $" + envAdminPassword)
	}

	r, err := domain.AsAdminRole(role)
	if err != nil {
		return domain.AdminParam{}, err
	}
	g, err := domain.AsGender(gender)
	if err != nil {
		return domain.AdminParam{}, err
	}
	if err := errors.Join(
		domain.ValidateName(name),
		domain.ValidateEmail(email),
		domain.ValidatePhone(phone, 10),
		domain.ValidatePassword(pass),
	); err != nil {
		return domain.AdminParam{}, err
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return domain.AdminParam{}, err
	}
	return domain.AdminParam{
		Name: name, Phone: phone, Email: email, Gender: g,
		Password: hash, Role: r,
	}, nil
}

func newAdminListCommand(connect func(*cobra.Command) (fdb.Database, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			admins, err := db.Admins().List(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(admins))
			for _, a := range admins {
				lastLogin := "-"
				if a.LastLogin != nil {
					lastLogin = a.LastLogin.Local().Format("2006-01-02 15:04")
				}
				createdBy := a.CreatorName
				if createdBy == "" {
					createdBy = "-"
				}
				rows = append(rows, []string{
					strconv.Itoa(a.Id), a.Name, a.Email, string(a.Role), string(a.Status),
					lastLogin, createdBy,
				})
			}
			cmd.Println(renderTable(
				[]string{"ID", "NAME", "EMAIL", "ROLE", "STATUS", "LAST LOGIN", "CREATED BY"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
}
