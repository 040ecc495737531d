package availability

import "errors"

// ErrUnknownCollisionMode возвращается при неизвестном режиме проверки коллизий
var ErrUnknownCollisionMode = errors.New("availability: unknown collision mode")
