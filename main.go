// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/CrawX/go-imap-migrate/attachments"
	"github.com/CrawX/go-imap-migrate/checkpoint"
	"github.com/CrawX/go-imap-migrate/config"
	"github.com/CrawX/go-imap-migrate/imapconnection"
	"github.com/CrawX/go-imap-migrate/labels"
	"github.com/CrawX/go-imap-migrate/log"
	"github.com/CrawX/go-imap-migrate/migration"
	"github.com/CrawX/go-imap-migrate/persistence"
	"github.com/CrawX/go-imap-migrate/progress"
	"github.com/CrawX/go-imap-migrate/statistics"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type options struct {
	simulate   bool
	configFile string
	envFile    string
	yes        bool
}

func main() {
	o := &options{}
	rootCmd := &cobra.Command{
		Use:          "go-imap-migrate",
		Short:        "Migrate a Gmail account to another IMAP server, turning labels into folders",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o)
		},
	}
	rootCmd.Flags().BoolVar(&o.simulate, "simulate", false, "Dry-run: report folder mapping and statistics without creating folders or appending mails")
	rootCmd.Flags().StringVar(&o.configFile, "config", "config.toml", "Configuration file")
	rootCmd.Flags().StringVar(&o.envFile, "env", ".env", "File with the account credentials")
	rootCmd.Flags().BoolVar(&o.yes, "yes", false, "Do not ask for confirmation in live mode")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options) error {
	log.InitLogging("info")
	logger := log.Logger(log.LOG_MAIN)

	conf, err := config.ReadConfig(o.configFile)
	if err != nil {
		logger.WithField("error", err).Fatal("Could not load config")
	}

	if conf.Loglevel != nil {
		log.SetLogLevel(*conf.Loglevel)
	}

	if conf.LogFile != "" {
		logFile, err := log.EnableLogFile(conf.LogFile)
		if err != nil {
			logger.WithField("error", err).Fatal("Could not open log file")
		}
		defer logFile.Close()
	}

	creds, err := config.ReadCredentials(o.envFile)
	if err != nil {
		logger.WithField("error", err).Fatal("Could not load credentials")
	}

	if o.simulate {
		logger.Info("Running in SIMULATION mode, no changes will be made")
	} else {
		logger.Warn("Running in LIVE mode, folders will be created and mails appended on the destination server")
		if !o.yes && !confirm(os.Stdin, os.Stdout) {
			logger.Info("Migration aborted by user")
			return nil
		}
	}

	fs := afero.NewOsFs()
	stats := statistics.NewRecorder(fs, conf.StatisticsFile)
	checkpoints := checkpoint.NewStore(fs, conf.CheckpointFile)

	configs := []migration.ConfigFunc{
		migration.RootFolder(conf.Mapping.RootFolder),
		migration.ReconnectInterval(conf.ReconnectInterval),
		migration.MessageDelay(conf.Delay()),
		migration.Progress(progress.ForTerminal()),
	}
	if o.simulate {
		configs = append(configs, migration.DryRun())
	}

	if conf.Database != "" {
		p, err := persistence.NewPersistence(conf.Database)
		if err != nil {
			logger.WithField("error", err).Fatal("Could not connect to database")
		}
		defer p.Close()
		configs = append(configs, migration.Ledger(p))
	}

	if conf.Attachments.Enabled {
		policy := conf.Attachments.Policy()
		logger.WithFields(logrus.Fields{"whitelist": policy.Whitelist, "storage": policy.StoragePath}).Info("Extracting attachments")
		configs = append(configs, migration.ExtractAttachments(attachments.NewExtractor(policy, fs, stats)))
	}

	imapOptions := []imapconnection.Option{
		imapconnection.Compress(conf.Compress),
		imapconnection.LabelsFetchItem(conf.LabelsFetchItem),
	}

	source, err := imapconnection.Connect(imapconnection.Credentials{
		Server:   creds.Source.Server,
		User:     creds.Source.Email,
		Password: creds.Source.Password,
	}, imapOptions...)
	if err != nil {
		logger.WithField("error", err).Fatal("Could not connect to source server")
	}
	defer source.Close()

	// Labels only exist on the source, the destination is a plain server.
	destination, err := imapconnection.Connect(imapconnection.Credentials{
		Server:   creds.Destination.Server,
		User:     creds.Destination.Email,
		Password: creds.Destination.Password,
	}, imapconnection.Compress(conf.Compress), imapconnection.LabelsFetchItem(""))
	if err != nil {
		logger.WithField("error", err).Fatal("Could not connect to destination server")
	}
	defer destination.Close()

	m, err := migration.NewMigrator(source, destination, labels.NewMapper(conf.Mapping.Rules()), checkpoints, stats, configs...)
	if err != nil {
		logger.WithField("error", err).Fatal("Could not start migration")
	}

	_, err = m.Prepare(ctx)
	if err != nil {
		logger.WithField("error", err).Error("Preparing folders failed")
		return err
	}

	summary, err := m.Migrate(ctx)
	if summary != nil {
		logger.WithFields(logrus.Fields{"total": summary.Total, "skipped": summary.Skipped, "interrupted": summary.Interrupted}).Info("Migration finished")
		logger.Infof("Total emails: %d", summary.Total)
		logger.Infof("Skipped emails: %d", summary.Skipped)
		logger.Infof("Total size: %.2f MB", summary.SizeMB)
	}
	logger.Debugf("Statistics:\n%s", stats.Format())
	if err != nil {
		logger.WithField("error", err).Error("Migration failed, run again to resume")
		return err
	}

	return nil
}

// confirm asks on out and reads the answer from in, only yes or y continue.
func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Do you want to continue? (yes/no): ")
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		return true
	}
	return false
}
