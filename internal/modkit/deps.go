package modkit

import (
	"crimecast/internal/modkit/repokit"
	"crimecast/internal/platform/config"
	"crimecast/internal/platform/logger"
	"crimecast/internal/platform/store"
)

// Deps are the shared handles passed to every module; storage handles are nil when disabled
type Deps struct {
	Log  logger.Logger
	Cfg  config.Conf
	PG   repokit.TxRunner
	CH   store.Clickhouse
	Lite repokit.TxRunner
}

// DepsFrom lifts the open backends of st into Deps
func DepsFrom(log logger.Logger, cfg config.Conf, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st != nil {
		d.PG, d.CH, d.Lite = st.PG, st.CH, st.Lite
	}
	return d
}
