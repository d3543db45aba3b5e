package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/slots"
)

// Рисует картинку сетки дня на тестовых данных, чтобы проверить вёрстку без бота
func main() {
	out := flag.String("out", "dia.png", "файл для сохранения")
	flag.Parse()

	now := time.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Тестовые слоты
	existing := []model.Slot{
		{Time: "09:00", Available: true},
		{Time: "09:30", Available: true, Booked: true},
		{Time: "10:00", Available: true},
		{Time: "14:00", Available: true},
		{Time: "14:30", Available: true, Booked: true},
		{Time: "18:00", Available: true},
	}
	grid := slots.Generate(existing, date, now, slots.DefaultGrid())

	imageData, err := common.GenerateDayImage(date, grid)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	available, booked := slots.Counts(grid)
	fmt.Printf("✅ Изображение успешно сохранено в %s\n", *out)
	fmt.Printf("📅 Дата: %s\n", date.Format("02.01.2006"))
	fmt.Printf("📊 Слотов: %d, открыто: %d, занято: %d\n", len(grid), available, booked)
}
