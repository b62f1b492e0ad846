package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/droidcfg/internal/app"
)

func (c *CLI) newSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Write a detached OpenPGP signature for the stored plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, _ := cmd.Flags().GetString("key")
			passphraseEnv, _ := cmd.Flags().GetString("passphrase-env")

			var passphrase []byte
			if passphraseEnv != "" {
				passphrase = []byte(os.Getenv(passphraseEnv))
			}

			sigPath, err := c.app.Sign(cmd.Context(), app.SignOptions{
				Options:    c.options(""),
				KeyPath:    key,
				Passphrase: passphrase,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), sigPath)
			return nil
		},
	}
	cmd.Flags().StringP("key", "k", "", "Armored OpenPGP private key file")
	cmd.Flags().String("passphrase-env", "", "Environment variable holding the key passphrase")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func (c *CLI) newCheckSignatureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-signature",
		Short: "Verify the stored plan against its detached signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keyring, _ := cmd.Flags().GetString("keyring")

			signer, err := c.app.CheckSignature(cmd.Context(), app.CheckSignatureOptions{
				Options:     c.options(""),
				KeyringPath: keyring,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "good signature from %s\n", signer)
			return nil
		},
	}
	cmd.Flags().String("keyring", "", "Armored OpenPGP public keyring file")
	_ = cmd.MarkFlagRequired("keyring")
	return cmd
}
