package letters

import "context"

// Repository port for persisting letter audit records
type Repository interface {
	Save(ctx context.Context, l *Letter) error
}

// Archive port (interface untuk penyimpanan teks surat)
type Archive interface {
	Put(ctx context.Context, key string, content []byte) (string, error)
}
