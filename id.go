package checkout

import "github.com/chanderbhanswami/vardhman-mills-sub017/id"

// ID is the primary identifier type for all checkout entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
