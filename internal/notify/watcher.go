package notify

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const poolChannel = "candidates_changed"

// PoolWatcher escucha NOTIFY de Postgres sobre cambios en el pool de
// candidatos y dispara la invalidacion del cache de matching. Si el canal
// nunca emite, el TTL del cache igual acota la antiguedad de los resultados.
type PoolWatcher struct {
	pool     *pgxpool.Pool
	logger   *zap.Logger
	onChange func()
}

func NewPoolWatcher(pool *pgxpool.Pool, logger *zap.Logger, onChange func()) *PoolWatcher {
	return &PoolWatcher{pool: pool, logger: logger, onChange: onChange}
}

const (
	watcherMaxBackoff = 30 * time.Second
	// Una sesion que duro al menos esto llego a conectar y escuchar; el
	// proximo fallo arranca el backoff desde cero en vez de quedarse
	// clavado en el maximo.
	watcherHealthySession = time.Minute
)

// Run bloquea escuchando notificaciones hasta que el contexto se cancele.
// Ante fallos de conexion reintenta con backoff creciente.
func (w *PoolWatcher) Run(ctx context.Context) {
	var backoff time.Duration
	for {
		started := time.Now()
		err := w.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		backoff = retryBackoff(backoff, time.Since(started))
		w.logger.Warn("pool watcher disconnected", zap.Error(err), zap.Duration("retry_in", backoff))

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}

// retryBackoff duplica la espera anterior hasta watcherMaxBackoff y la
// resetea a un segundo despues de una sesion sana.
func retryBackoff(prev, session time.Duration) time.Duration {
	if session >= watcherHealthySession {
		return time.Second
	}
	next := prev * 2
	if next < time.Second {
		next = time.Second
	}
	if next > watcherMaxBackoff {
		next = watcherMaxBackoff
	}
	return next
}

func (w *PoolWatcher) listen(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+poolChannel); err != nil {
		return err
	}
	w.logger.Info("pool watcher listening", zap.String("channel", poolChannel))

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			return err
		}
		if w.onChange != nil {
			w.onChange()
		}
	}
}
