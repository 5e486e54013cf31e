package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Freeeeeet/timetable_builder/internal/layout"
	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/Freeeeeet/timetable_builder/internal/render"
)

// Рисует неделю с тестовыми лекциями в week.png и week.xlsx
func main() {
	out := flag.String("out", "week", "output file name without extension")
	flag.Parse()

	snap := model.Snapshot{
		TimetableID: "demo",
		Status:      model.StatusReady,
		Lectures: []model.Lecture{
			{
				ID: "1", Title: "Алгоритмы", Credit: 3,
				TimeSlots: []model.TimeSlot{
					{Day: model.Monday, StartMinute: 9 * 60, EndMinute: 10*60 + 30, Place: "301"},
					{Day: model.Wednesday, StartMinute: 9 * 60, EndMinute: 10*60 + 30, Place: "301"},
				},
			},
			{
				ID: "2", Title: "Операционные системы", Credit: 3,
				TimeSlots: []model.TimeSlot{
					{Day: model.Tuesday, StartMinute: 11 * 60, EndMinute: 12*60 + 15, Place: "112"},
					{Day: model.Thursday, StartMinute: 11 * 60, EndMinute: 12*60 + 15, Place: "112"},
				},
			},
			{
				ID: "3", Title: "Базы данных", Credit: 2,
				TimeSlots: []model.TimeSlot{
					{Day: model.Friday, StartMinute: 14 * 60, EndMinute: 16 * 60, Place: "Lab 2"},
				},
			},
			{
				// частично за окном 09:00-22:00
				ID: "4", Title: "Вечерний семинар", Credit: 1,
				TimeSlots: []model.TimeSlot{
					{Day: model.Wednesday, StartMinute: 20 * 60, EndMinute: 23 * 60},
				},
			},
		},
	}

	image, err := render.WeekImage(snap, layout.DefaultWindow)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out+".png", image, 0o644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	sheet, err := render.WeekSheet(snap, layout.DefaultWindow)
	if err != nil {
		fmt.Printf("Ошибка экспорта: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out+".xlsx", sheet, 0o644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Сохранено: %s.png, %s.xlsx\n", *out, *out)
	fmt.Printf("📊 Лекций: %d, кредитов: %d\n", len(snap.Lectures), snap.TotalCredits())
}
