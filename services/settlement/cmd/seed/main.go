package main

import (
	"flag"
	"fmt"

	"consultly/pkg/config"
	"consultly/pkg/database"
	"consultly/pkg/logger"
	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/model"
	"consultly/services/settlement/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	creatorRepo := persistent.NewCreatorRepository(db)
	walletRepo := persistent.NewWalletRepository(db)

	creators := []model.CreatorModel{
		{
			ID:        uuid.New().String(),
			Username:  "astro.meera",
			VideoRate: decimal.NewFromInt(25),
			AudioRate: decimal.NewFromInt(15),
			ChatRate:  decimal.NewFromInt(10),
		},
		{
			ID:              uuid.New().String(),
			Username:        "coach.daniel",
			Global:          true,
			GlobalVideoRate: decimal.NewFromFloat(1.50),
			GlobalAudioRate: decimal.NewFromFloat(0.90),
			GlobalChatRate:  decimal.NewFromFloat(0.50),
		},
		{
			ID:        uuid.New().String(),
			Username:  "tarot.nina",
			VideoRate: decimal.NewFromInt(40),
			AudioRate: decimal.NewFromInt(30),
			ChatRate:  decimal.NewFromInt(20),
		},
	}

	for i := range creators {
		if err := creatorRepo.Create(&creators[i]); err != nil {
			log.Error("Failed to seed creator %s: %v", creators[i].Username, err)
			continue
		}
		if _, err := walletRepo.GetOrCreateWallet(creators[i].ID, entity.UserTypeCreator); err != nil {
			log.Error("Failed to create wallet for creator %s: %v", creators[i].Username, err)
		}
		log.Info("Seeded creator %s (%s)", creators[i].Username, creators[i].ID)
	}

	// A demo client with a topped-up wallet so settlements have something to debit
	clientID := uuid.New().String()
	if _, err := walletRepo.ApplyEntry(clientID, entity.UserTypeClient, "", entity.CategoryTopUp, decimal.NewFromInt(500)); err != nil {
		log.Error("Failed to seed client wallet: %v", err)
	} else {
		log.Info("Seeded client %s with balance 500", clientID)
	}

	log.Info("Seeding complete")
}
