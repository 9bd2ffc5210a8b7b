package main

import (
	"context"
	"flag"
	"log"

	"tersys/internal/authz"
	"tersys/pkg/config"
	"tersys/pkg/database/postgresql"
	applogger "tersys/pkg/logger"
	"tersys/seeders"

	"go.uber.org/zap"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runAdmin := flag.Bool("admin", false, "Создать администратора")
	adminUser := flag.String("admin-username", "admin", "Логин администратора")
	adminPassword := flag.String("admin-password", "", "Пароль администратора (не короче 6 символов)")
	runSamples := flag.Bool("samples", false, "Создать демонстрационные филиалы и терцеиризованных сотрудников")
	equipmentXLSX := flag.String("equipment-xlsx", "", "Путь к XLSX-файлу с оборудованием")
	flag.Parse()

	if !*runAdmin && !*runSamples && *equipmentXLSX == "" {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -admin -admin-password=segredo123")
		log.Println("  go run ./seeders/cmd/seed -samples -equipment-xlsx=./frota.xlsx")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, "")
	ctx := context.Background()

	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		log.Fatalf("❌ Ошибка подключения к БД: %v", err)
	}
	defer dbPool.Close()

	if err := postgresql.Migrate(ctx, dbPool); err != nil {
		log.Fatalf("❌ Ошибка миграций: %v", err)
	}

	s := seeders.New(dbPool, logger)

	if *runAdmin {
		if err := s.SeedUser(ctx, *adminUser, *adminPassword, authz.RoleAdministrator); err != nil {
			log.Fatalf("❌ Ошибка создания администратора: %v", err)
		}
		log.Println("======================================================")
	}

	if *runSamples {
		if err := s.SeedBranches(ctx); err != nil {
			log.Fatalf("❌ Ошибка наполнения филиалов: %v", err)
		}
		if err := s.SeedWorkers(ctx); err != nil {
			log.Fatalf("❌ Ошибка наполнения терцеиризованных сотрудников: %v", err)
		}
		log.Println("======================================================")
	}

	if *equipmentXLSX != "" {
		res, err := s.ImportEquipment(ctx, *equipmentXLSX)
		if err != nil {
			log.Fatalf("❌ Ошибка импорта оборудования: %v", err)
		}
		logger.Info("Импорт оборудования завершён", zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
