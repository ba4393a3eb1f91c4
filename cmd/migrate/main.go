package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"minierp/config"
	"minierp/internal/pkg/database"
	"minierp/internal/pkg/logger"
	"minierp/migrations"
)

// Uso: migrate [-dir ./migrations] [up|down|status|redo|version ...]
// Sem -dir, aplica os scripts embutidos no binário.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)

	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "", "diretório com os scripts (padrão: scripts embutidos)")
	flag.Parse()

	var source fs.FS = migrations.FS
	dir := "."
	if migrationsDir != "" {
		source = os.DirFS(migrationsDir)
	}
	goose.SetBaseFS(source)

	if err := goose.SetDialect("postgres"); err != nil {
		appLog.Fatal("Dialeto goose inválido.", err)
	}

	db, err := database.NewPostgresDB(context.Background(), cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()

	command := "up"
	var args []string
	if rest := flag.Args(); len(rest) > 0 {
		command, args = rest[0], rest[1:]
	}

	if err := goose.RunContext(context.Background(), command, db, dir, args...); err != nil {
		appLog.Fatal("Migração falhou.", err)
	}
	appLog.Info("Migração concluída.", map[string]interface{}{"command": command})
}
