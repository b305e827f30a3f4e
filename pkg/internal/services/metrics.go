package services

import (
	"time"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var (
	feedAssembled = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "community_feed_assembly_seconds",
		Help:    "Time spent assembling a feed, by resolved tab.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tab"})

	storeRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "community_store_records",
		Help: "Record count of a store table.",
	}, []string{"table"})
)

func observeFeedAssembly(tab string, elapsed time.Duration) {
	feedAssembled.WithLabelValues(tab).Observe(elapsed.Seconds())
}

var storeMetricTables = map[string]any{
	"accounts":    &models.Account{},
	"communities": &models.Community{},
	"follows":     &models.CommunityFollow{},
	"posts":       &models.Post{},
	"replies":     &models.Reply{},
	"post_likes":  &models.PostLike{},
	"reply_likes": &models.ReplyLike{},
	"messages":    &models.Message{},
}

// CollectStoreMetrics samples the record count of every table into the store gauge.
func CollectStoreMetrics() {
	for name, model := range storeMetricTables {
		var count int64
		if err := database.C.Model(model).Count(&count).Error; err != nil {
			log.Warn().Err(err).Str("table", name).Msg("Unable to collect store metrics...")
			continue
		}
		storeRecords.WithLabelValues(name).Set(float64(count))
	}
}
