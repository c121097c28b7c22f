// Command paysig computes and checks the HMAC signatures the payment routes expect.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"cookiegallery/internal/domain/signature"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "paysig",
		Short:         "Compute and verify Razorpay payment signatures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(confirmationCmd())
	root.AddCommand(webhookCmd())
	root.AddCommand(verifyCmd())
	return root
}

func confirmationCmd() *cobra.Command {
	var secret, orderID, paymentID string

	cmd := &cobra.Command{
		Use:   "confirmation",
		Short: "Print the razorpay_signature for an order/payment pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := verifier(secret, "RAZORPAY_KEY_SECRET")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.Sign(signature.ConfirmationMessage(orderID, paymentID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "key secret (default $RAZORPAY_KEY_SECRET)")
	cmd.Flags().StringVar(&orderID, "order-id", "", "gateway order id")
	cmd.Flags().StringVar(&paymentID, "payment-id", "", "gateway payment id")
	_ = cmd.MarkFlagRequired("order-id")
	_ = cmd.MarkFlagRequired("payment-id")
	return cmd
}

func webhookCmd() *cobra.Command {
	var secret, file string

	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Print the x-razorpay-signature for a raw webhook body",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := verifier(secret, "RAZORPAY_WEBHOOK_SECRET")
			if err != nil {
				return err
			}
			body, err := readBody(cmd, file)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.Sign(body))
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "webhook secret (default $RAZORPAY_WEBHOOK_SECRET)")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "body file, - for stdin")
	return cmd
}

func verifyCmd() *cobra.Command {
	var secret, file, orderID, paymentID, sig string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a confirmation (--order-id/--payment-id) or webhook (--file) signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				message []byte
				envVar  string
			)
			switch {
			case orderID != "" || paymentID != "":
				message, envVar = signature.ConfirmationMessage(orderID, paymentID), "RAZORPAY_KEY_SECRET"
			case file != "":
				body, err := readBody(cmd, file)
				if err != nil {
					return err
				}
				message, envVar = body, "RAZORPAY_WEBHOOK_SECRET"
			default:
				return errors.New("either --order-id and --payment-id, or --file is required")
			}

			v, err := verifier(secret, envVar)
			if err != nil {
				return err
			}
			if !v.Verify(message, sig) {
				return errors.New("signature mismatch")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "secret (default from the matching RAZORPAY_* variable)")
	cmd.Flags().StringVar(&orderID, "order-id", "", "gateway order id")
	cmd.Flags().StringVar(&paymentID, "payment-id", "", "gateway payment id")
	cmd.Flags().StringVarP(&file, "file", "f", "", "webhook body file, - for stdin")
	cmd.Flags().StringVar(&sig, "signature", "", "hex signature to check")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}

func verifier(secret, envVar string) (*signature.Verifier, error) {
	if secret == "" {
		secret = os.Getenv(envVar)
	}
	v := signature.NewVerifier(secret)
	if !v.Configured() {
		return nil, fmt.Errorf("no secret: pass --secret or set %s", envVar)
	}
	return v, nil
}

// readBody returns the file bytes unmodified; a trailing newline changes the signature.
func readBody(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(file)
}
