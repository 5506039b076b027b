package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/venture-profile/internal/db"
	"github.com/jonathan/venture-profile/internal/types"
)

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Email a business profile PDF",
	Long: "Renders a business profile and sends it as a PDF attachment through the configured " +
		"mail relay (MAIL_ENDPOINT). Without a relay the delivery is only logged.",
	RunE: runEmail,
}

var (
	emailProfileFile string
	emailRoundsFile  string
	emailCompanyID   string
	emailTo          string
	emailSubject     string
	emailMessage     string
)

func init() {
	emailCmd.Flags().StringVarP(&emailProfileFile, "profile", "p", "", "Path to company profile JSON file")
	emailCmd.Flags().StringVarP(&emailRoundsFile, "rounds", "r", "", "Path to funding rounds JSON file (optional, with --profile)")
	emailCmd.Flags().StringVar(&emailCompanyID, "company-id", "", "Company ID to load from the database")
	emailCmd.Flags().StringVar(&emailTo, "to", "", "Recipient email address (required)")
	emailCmd.Flags().StringVarP(&emailSubject, "subject", "s", "", "Email subject (default: \"<company> Business Profile\")")
	emailCmd.Flags().StringVarP(&emailMessage, "message", "m", "", "Email body")

	_ = emailCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(emailCmd)
}

func runEmail(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	src := profileSource{profilePath: emailProfileFile, roundsPath: emailRoundsFile, companyID: emailCompanyID}
	loaded, err := loadProfile(ctx, src, cfg)
	if err != nil {
		return err
	}
	defer loaded.close()

	form := types.EmailForm{To: emailTo, Subject: emailSubject, Message: emailMessage}
	if form.Subject == "" {
		form.Subject = loaded.profile.Name + " Business Profile"
	}
	if err := form.Validate(); err != nil {
		return fmt.Errorf("invalid email request: %w", err)
	}

	exporter := newExporter(cfg, newMailer(cfg, logger), logger)
	msg, err := exporter.Email(ctx, loaded.profile, loaded.rounds, form)
	if err != nil {
		return err
	}
	loaded.record(ctx, db.ExportInput{
		FileName:  msg.Attachment.FileName,
		Channel:   db.ChannelEmail,
		Recipient: msg.To,
		ByteSize:  len(msg.Attachment.Data),
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Sent %s to %s\n", msg.Attachment.FileName, msg.To)
	return nil
}
