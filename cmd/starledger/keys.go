package main

import (
	"encoding/hex"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/alexsserban/starledger/ownership"
)

func newKeygenCmd() *cobra.Command {
	var scheme string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an identity and its private key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := ownership.ParseScheme(scheme)
			if err != nil {
				return err
			}
			key, err := ownership.GenerateKey(s)
			if err != nil {
				return err
			}
			pterm.DefaultBox.WithTitle(pterm.LightYellow("|" + string(key.Scheme) + "|")).WithTitleTopCenter().
				WithLeftPadding(2).WithRightPadding(2).
				Println(pterm.Sprintf("identity:    %s\nprivate key: %s", pterm.LightCyan(key.Identity), key.PrivateKey))
			return nil
		},
	}
	cmd.Flags().StringVarP(&scheme, "scheme", "s", string(ownership.SchemeEthereum), "signature scheme (ethereum, ed25519, schnorr)")
	return cmd
}

func newSignCmd() *cobra.Command {
	var scheme, key, message string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a validation message",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := ownership.ParseScheme(scheme)
			if err != nil {
				return err
			}
			sig, err := ownership.Sign(s, key, []byte(message))
			if err != nil {
				return err
			}
			cmd.Println("0x" + hex.EncodeToString(sig))
			return nil
		},
	}
	cmd.Flags().StringVarP(&scheme, "scheme", "s", string(ownership.SchemeEthereum), "signature scheme (ethereum, ed25519, schnorr)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "hex encoded private key")
	cmd.Flags().StringVarP(&message, "message", "m", "", "message returned by requestValidation")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}
