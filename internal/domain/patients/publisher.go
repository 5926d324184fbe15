package patients

import "context"

// Publisher propaga mutaciones locales ya confirmadas hacia el resto de los
// hospitales. Se invoca después del commit y antes de responder al cliente:
// si falla, la request falla pero la mutación local queda (el reintento del
// caller es seguro porque el apply remoto es idempotente).
type Publisher interface {
	RecordUpserted(ctx context.Context, p Patient) error
	RecordDeleted(ctx context.Context, id int64) error
	RecordsCleared(ctx context.Context) error
}
