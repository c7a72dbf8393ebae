package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"nostrtrust/engine/actors"
	"nostrtrust/engine/helpers"
	"nostrtrust/engine/library"
	"nostrtrust/libraries/delegation"
	"nostrtrust/libraries/keys"
	"nostrtrust/libraries/profile"
	"nostrtrust/messaging/relays"
)

func RootCommand(conf *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "trust-tool",
		Short:        "sign and check nostr delegations, encode and decode nprofile pointers",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(delegateCommand(conf), verifyCommand(conf), eventCommand(conf),
		nprofileCommand(conf), walletCommand())
	return rootCmd
}

func delegateCommand(conf *viper.Viper) *cobra.Command {
	var delegatee, conditions string
	cmd := &cobra.Command{
		Use:   "delegate",
		Short: "grant another key the right to sign events on behalf of the wallet key",
		Long: "Signs nostr:delegation:<delegatee>:<conditions> with the wallet key and prints the\n" +
			"delegation tag the delegatee must attach to its events.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := actors.DelegationParser(conf).Parse(conditions)
			if err != nil {
				return err
			}
			delegateePub, err := keys.ParsePublicKeyHex(keys.Default, delegatee)
			if err != nil {
				return err
			}
			sk, _, err := actors.MyKeys()
			if err != nil {
				return err
			}
			tag, err := delegation.NewTag(keys.Default, c, delegateePub, sk)
			if err != nil {
				return err
			}
			library.LogCLI(fmt.Sprintf("signed payload sha256 %s", library.Sha256Sum(delegation.SigningPayload(delegateePub.Hex(), c))), 3)
			return printJSON(cmd, tag.NostrTag())
		},
	}
	cmd.Flags().StringVarP(&delegatee, "delegatee", "d", "", "hex public key of the key being granted")
	cmd.Flags().StringVarP(&conditions, "conditions", "c", "", "conditions, e.g. kind=1&created_at>1674834236&created_at<1677426236")
	cmd.MarkFlagRequired("delegatee")
	return cmd
}

func verifyCommand(conf *viper.Viper) *cobra.Command {
	var delegatee, tagJSON string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "check a delegation tag for a delegatee",
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw nostr.Tag
			if err := json.Unmarshal([]byte(tagJSON), &raw); err != nil {
				return errors.Wrap(err, "tag must be a JSON array")
			}
			tag, err := actors.DelegationParser(conf).ParseTag(keys.Default, raw)
			if err != nil {
				return err
			}
			delegateePub, err := keys.ParsePublicKeyHex(keys.Default, delegatee)
			if err != nil {
				return err
			}
			if err = tag.Verify(keys.Default, delegateePub); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s delegated to %s under %q\n", tag.Delegator, delegateePub, tag.Conditions.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&delegatee, "delegatee", "d", "", "hex public key the grant was issued to")
	cmd.Flags().StringVarP(&tagJSON, "tag", "t", "", `the tag, e.g. ["delegation","<delegator>","<conditions>","<sig>"]`)
	cmd.MarkFlagRequired("delegatee")
	cmd.MarkFlagRequired("tag")
	return cmd
}

func eventCommand(conf *viper.Viper) *cobra.Command {
	var tagJSON, content string
	var kind int
	var simulate bool
	cmd := &cobra.Command{
		Use:   "event",
		Short: "sign an event with the wallet key as delegatee and publish it",
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw nostr.Tag
			if err := json.Unmarshal([]byte(tagJSON), &raw); err != nil {
				return errors.Wrap(err, "tag must be a JSON array")
			}
			e := helpers.DelegatedEvent(raw, kind, content)
			switch d := actors.DelegationParser(conf).CheckEvent(keys.Default, e).(type) {
			case delegation.InvalidDelegation:
				return errors.Errorf("refusing to publish: %s", d.Reason)
			case delegation.NotDelegated:
				return errors.New("refusing to publish: tag is not a delegation tag")
			case delegation.DelegatedBy:
				library.LogCLI(fmt.Sprintf("event will be attributed to %s", d.Delegator), 4)
			}
			if err := helpers.Sign(&e); err != nil {
				return err
			}
			if err := printJSON(cmd, e); err != nil {
				return err
			}
			if simulate || conf.GetBool("doNotPublish") {
				return nil
			}
			timeout := time.Duration(conf.GetInt("publishTimeoutSeconds")) * time.Second
			failed := relays.PublishToRelays(cmd.Context(), []nostr.Event{e}, conf.GetStringSlice("relays"), timeout)
			if len(failed) == len(conf.GetStringSlice("relays")) && len(failed) > 0 {
				return errors.New("no relay accepted the event")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&tagJSON, "tag", "t", "", "delegation tag issued to the wallet key")
	cmd.Flags().StringVarP(&content, "content", "m", "", "event content")
	cmd.Flags().IntVarP(&kind, "kind", "k", 1, "event kind")
	cmd.Flags().BoolVarP(&simulate, "simulate", "s", false, "print the event without publishing it")
	cmd.MarkFlagRequired("tag")
	return cmd
}

func nprofileCommand(conf *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "nprofile",
		Short: "encode, decode and resolve nprofile pointers",
	}

	var pubkey string
	var hints []string
	encode := &cobra.Command{
		Use:   "encode",
		Short: "encode a public key and relay hints, defaults to the wallet key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pubkey == "" {
				pubkey = actors.MyWallet().Account
			}
			pk, err := keys.ParsePublicKeyHex(keys.Default, pubkey)
			if err != nil {
				return err
			}
			s, err := actors.ProfileCodec(conf).Encode(profile.New(pk, hints...))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	encode.Flags().StringVarP(&pubkey, "pubkey", "p", "", "hex public key")
	encode.Flags().StringArrayVarP(&hints, "relay", "r", nil, "relay hint, may be repeated")
	root.AddCommand(encode)

	decode := &cobra.Command{
		Use:   "decode <nprofile>",
		Short: "print the public key and relay hints of an nprofile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := actors.ProfileCodec(conf).Decode(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
	root.AddCommand(decode)

	fetch := &cobra.Command{
		Use:   "fetch <nprofile>",
		Short: "fetch the newest metadata event from the relays hinted by an nprofile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := actors.ProfileCodec(conf).Decode(args[0])
			if err != nil {
				return err
			}
			timeout := time.Duration(conf.GetInt("publishTimeoutSeconds")) * time.Second
			e, err := relays.FetchLatestMetadata(context.Background(), p, timeout)
			if err != nil {
				return err
			}
			return printJSON(cmd, e)
		},
	}
	root.AddCommand(fetch)
	return root
}

func walletCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "wallet",
		Short: "show or import the key used for signing",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pk, err := actors.MyKeys()
			if err != nil {
				return err
			}
			npub, err := pk.NPub()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", pk.Hex(), npub)
			return nil
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "nsec",
		Short: "print the wallet secret key in bech32",
		RunE: func(cmd *cobra.Command, args []string) error {
			sk, _, err := actors.MyKeys()
			if err != nil {
				return err
			}
			nsec, err := sk.NSec()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), nsec)
			return nil
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "import <hex secret key>",
		Short: "replace the wallet key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := actors.ImportWallet(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), w.Account)
			return nil
		},
	})
	return root
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
