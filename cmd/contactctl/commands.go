package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dtroode/contactkeeper/internal/client"
	"github.com/dtroode/contactkeeper/internal/config"
	"github.com/dtroode/contactkeeper/internal/logger"
	"github.com/dtroode/contactkeeper/internal/state"
	"github.com/dtroode/contactkeeper/pkg/api"
)

// options are the persistent flags shared by every command.
type options struct {
	serverURL string
	token     string
	logLevel  int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "contactctl",
		Short: "Manage contacts stored on a contactkeeper server",
		Long: `contactctl talks to a contactkeeper server.

The server address and access token default to CONTACTKEEPER_URL and
CONTACTKEEPER_TOKEN. Run "contactctl login" and export the printed token
to use the contact commands.`,
		Version:       fmt.Sprintf("%s (built %s, commit %s)", buildVersion, buildDate, buildCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.serverURL, "server", "", "server URL (overrides CONTACTKEEPER_URL)")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "access token (overrides CONTACTKEEPER_TOKEN)")
	root.PersistentFlags().IntVar(&opts.logLevel, "log-level", 4, "log level: -4 debug, 0 info, 4 warn, 8 error")

	root.AddCommand(
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newListCmd(opts),
		newAddCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newDemoCmd(opts),
	)

	return root
}

// newClient builds an API client from the environment and the flags.
func (o *options) newClient() (*client.Client, error) {
	cfg, err := config.NewClientConfig()
	if err != nil {
		return nil, err
	}
	if o.serverURL != "" {
		cfg.ServerURL = o.serverURL
	}
	if o.token != "" {
		cfg.Token = o.token
	}
	return client.New(cfg.ServerURL, cfg.Token, cfg.Timeout)
}

func (o *options) newKeeper(cmd *cobra.Command) (*client.Keeper, error) {
	c, err := o.newClient()
	if err != nil {
		return nil, err
	}
	if c.Token() == "" {
		return nil, errors.New("no access token: run contactctl login and set CONTACTKEEPER_TOKEN or --token")
	}

	k := client.NewKeeper(state.NewStore(state.State{}), c, logger.NewWithWriter(cmd.ErrOrStderr(), o.logLevel))
	if err := k.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return k, nil
}

func newRegisterCmd(opts *options) *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and print its tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			tokens, err := c.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			printTokens(cmd.OutOrStdout(), tokens)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password, at least 6 characters")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLoginCmd(opts *options) *cobra.Command {
	var req api.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a fresh token pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			tokens, err := c.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			printTokens(cmd.OutOrStdout(), tokens)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := opts.newKeeper(cmd)
			if err != nil {
				return err
			}
			printContacts(cmd.OutOrStdout(), k.Filter(filter))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "show only contacts whose name or type contains this text")

	return cmd
}

// contactFlags registers the contact field flags and returns a function
// that builds a ContactInput from the flags the user actually set.
func contactFlags(cmd *cobra.Command) func() api.ContactInput {
	var name, email, phone, typ string
	cmd.Flags().StringVar(&name, "name", "", "contact name")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&typ, "type", "", "personal or professional")

	return func() api.ContactInput {
		var in api.ContactInput
		if cmd.Flags().Changed("name") {
			in.Name = api.String(name)
		}
		if cmd.Flags().Changed("email") {
			in.Email = api.String(email)
		}
		if cmd.Flags().Changed("phone") {
			in.Phone = api.String(phone)
		}
		if cmd.Flags().Changed("type") {
			in.Type = api.String(typ)
		}
		return in
	}
}

func newAddCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
	}
	input := contactFlags(cmd)
	_ = cmd.MarkFlagRequired("name")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		k, err := opts.newKeeper(cmd)
		if err != nil {
			return err
		}
		contact, err := k.Add(cmd.Context(), input())
		if err != nil {
			return err
		}
		printContacts(cmd.OutOrStdout(), []api.Contact{contact})
		return nil
	}

	return cmd
}

func newUpdateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a contact",
		Args:  cobra.ExactArgs(1),
	}
	input := contactFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		in := input()
		if in == (api.ContactInput{}) {
			return errors.New("nothing to update: set at least one of --name, --email, --phone, --type")
		}
		k, err := opts.newKeeper(cmd)
		if err != nil {
			return err
		}
		contact, err := k.Update(cmd.Context(), args[0], in)
		if err != nil {
			return err
		}
		printContacts(cmd.OutOrStdout(), []api.Contact{contact})
		return nil
	}

	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := opts.newKeeper(cmd)
			if err != nil {
				return err
			}
			if err := k.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Contact removed")
			return nil
		},
	}
}

// newDemoCmd walks through the contact operations on the built-in sample
// contacts without contacting a server.
func newDemoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Show the contact operations on sample data, offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			k := client.NewKeeper(state.NewStore(state.Seeded()), nil, logger.NewWithWriter(cmd.ErrOrStderr(), opts.logLevel))

			fmt.Fprintln(out, "Sample contacts:")
			printContacts(out, k.State().Visible())

			added, err := k.Add(cmd.Context(), api.ContactInput{
				Name:  api.String("Harry White"),
				Email: api.String("harry@gmail.com"),
				Phone: api.String("333-333-3333"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "\nAfter adding Harry White:")
			printContacts(out, k.State().Visible())

			fmt.Fprintln(out, "\nFiltered by \"johnson\":")
			printContacts(out, k.Filter("johnson"))
			k.ClearFilter()

			if _, err := k.Update(cmd.Context(), added.ID, api.ContactInput{Type: api.String(api.ContactTypeProfessional)}); err != nil {
				return err
			}
			if err := k.Delete(cmd.Context(), "2"); err != nil {
				return err
			}
			fmt.Fprintln(out, "\nAfter making Harry professional and removing Ryan Dulac:")
			printContacts(out, k.State().Visible())
			return nil
		},
	}
}

func printTokens(w io.Writer, tokens api.TokenResponse) {
	fmt.Fprintf(w, "token: %s\nrefresh_token: %s\n", tokens.Token, tokens.RefreshToken)
}

func printContacts(w io.Writer, contacts []api.Contact) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tTYPE")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone, c.Type)
	}
	_ = tw.Flush()
}
