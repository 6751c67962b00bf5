package cronjobs

import (
	"log"

	"github.com/robfig/cron/v3"

	"go-sentinel/pipeline"
)

// InitCronJobs schedules the periodic detection run. spec is a standard
// cron expression; runs are self-contained so an overlapping manual trigger
// is safe (the store step is serialized).
func InitCronJobs(pl *pipeline.Pipeline, spec string) *cron.Cron {
	log.Println("Starting cron jobs -------------------------------------------------------")
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		log.Println("CronJob: scheduled detection run")
		if _, err := pl.Run(); err != nil {
			log.Printf("CronJob: detection run failed: %v", err)
		}
	})
	if err != nil {
		log.Println("Error scheduling detection run:", err)
	}

	c.Start()
	return c
}
