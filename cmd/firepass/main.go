// Package main implements the firepass command line tool, which exports
// Firefox saved logins to CSV and imports CSV rows back into a profile.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/firepass/firepass/internal/config"
	"github.com/firepass/firepass/internal/csvio"
	"github.com/firepass/firepass/internal/db"
	"github.com/firepass/firepass/internal/logger"
	"github.com/firepass/firepass/internal/models"
	"github.com/firepass/firepass/internal/nss"
	"github.com/firepass/firepass/internal/profile"
	"github.com/firepass/firepass/internal/repository"
	"github.com/firepass/firepass/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options := config.Parse()

	if options.ShowVersion {
		// cmp.Or needs Go 1.22+; inline the same first-non-empty logic for Go 1.21.
		versionStr, buildDateStr := version, buildDate
		if versionStr == "" {
			versionStr = "N/A"
		}
		if buildDateStr == "" {
			buildDateStr = "N/A"
		}
		fmt.Printf("firepass\nVersion: %s\nBuild Date: %s\n", versionStr, buildDateStr)
		return
	}

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	switch options.Cmd {
	case "profiles":
		runProfiles()
	case "export":
		runExport(options, zapLogger)
	case "import":
		runImport(options, zapLogger)
	case "remove":
		runRemove(options, zapLogger)
	default:
		zapLogger.Fatal("unknown command, want export | import | remove | profiles",
			zap.String("cmd", options.Cmd))
	}
}

// runProfiles prints the discovered profile directories.
func runProfiles() {
	profiles, err := profile.Find()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, dir := range profiles {
		fmt.Println(dir)
	}
}

func runExport(options *config.Options, zapLogger *zap.Logger) {
	dir := profileDir(options, zapLogger)
	vault, doc := unlockProfile(dir, zapLogger)

	fields := strings.Split(options.Fields, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	rows, err := vault.Export(doc, fields)
	if err != nil {
		zapLogger.Fatal("export failed", zap.Error(err))
	}

	out := io.Writer(os.Stdout)
	if options.File != "" {
		f, err := os.Create(options.File)
		if err != nil {
			zapLogger.Fatal("cannot create output file", zap.Error(err))
		}
		defer f.Close()
		out = f
	}
	if err := csvio.WriteRows(out, fields, rows); err != nil {
		zapLogger.Fatal("cannot write csv", zap.Error(err))
	}
	zapLogger.Info("exported logins", zap.Int("count", len(rows)))
}

func runImport(options *config.Options, zapLogger *zap.Logger) {
	in := io.Reader(os.Stdin)
	if options.File != "" {
		f, err := os.Open(options.File)
		if err != nil {
			zapLogger.Fatal("cannot open input file", zap.Error(err))
		}
		defer f.Close()
		in = f
	}
	creds, err := csvio.ReadCredentials(in)
	if err != nil {
		zapLogger.Fatal("cannot read csv", zap.Error(err))
	}

	dir := profileDir(options, zapLogger)
	vault, doc := unlockProfile(dir, zapLogger)

	added := 0
	for _, cred := range creds {
		if err := vault.Add(doc, cred); err != nil {
			zapLogger.Warn("skipping row",
				zap.String("hostname", cred.Hostname), zap.Error(err))
			continue
		}
		added++
	}
	if err := repository.NewLoginsFile(dir).Save(doc); err != nil {
		zapLogger.Fatal("cannot save logins document", zap.Error(err))
	}
	zapLogger.Info("imported logins", zap.Int("count", added))
}

func runRemove(options *config.Options, zapLogger *zap.Logger) {
	if options.Host == "" {
		zapLogger.Fatal("please provide -host (and -login, -password)")
	}
	hostname, err := csvio.NormalizeURL(options.Host)
	if err != nil {
		zapLogger.Fatal("bad -host value", zap.Error(err))
	}

	dir := profileDir(options, zapLogger)
	vault, doc := unlockProfile(dir, zapLogger)

	cred := models.Credential{
		Hostname: hostname,
		Username: options.Login,
		Password: options.Password,
	}
	if err := vault.Remove(doc, cred); err != nil {
		zapLogger.Fatal("remove failed", zap.Error(err))
	}
	if err := repository.NewLoginsFile(dir).Save(doc); err != nil {
		zapLogger.Fatal("cannot save logins document", zap.Error(err))
	}
	zapLogger.Info("removed login", zap.String("hostname", cred.Hostname))
}

// profileDir resolves the profile directory from flags or auto-detection.
func profileDir(options *config.Options, zapLogger *zap.Logger) string {
	if options.ProfileDir != "" {
		return options.ProfileDir
	}
	dir, err := profile.Default()
	if err != nil {
		zapLogger.Fatal("cannot find a Firefox profile, pass -dir", zap.Error(err))
	}
	zapLogger.Info("using profile", zap.String("dir", dir))
	return dir
}

// unlockProfile derives the profile master key, prompting for the master
// password when the empty one does not verify, and loads the logins document.
func unlockProfile(dir string, zapLogger *zap.Logger) (*service.Vault, *models.Document) {
	conn, err := db.OpenKeyDatabase(dir)
	if err != nil {
		zapLogger.Fatal("cannot open key database", zap.Error(err))
	}
	defer conn.Close()

	suite := nss.StandardSuite()
	unlocker := nss.NewUnlocker(repository.NewKeyDatabase(conn), suite)
	key, err := unlocker.Unlock(context.Background(), promptPassword)
	if err != nil {
		zapLogger.Fatal("cannot unlock profile", zap.Error(err))
	}

	doc, err := repository.NewLoginsFile(dir).Load()
	if err != nil {
		zapLogger.Fatal("cannot load logins document", zap.Error(err))
	}
	return service.NewVault(suite, key, zapLogger), doc
}

// promptPassword reads the master password from the terminal without echo.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Master password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
