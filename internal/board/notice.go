package board

import "errors"

// NoticeKind classifies a user-facing notice.
type NoticeKind int

const (
	NoticeDenied NoticeKind = iota + 1
	NoticeFailed
	NoticeInvalid
)

// Notice is the message shown when a transition is blocked or reverted.
type Notice struct {
	Kind    NoticeKind
	Message string
}

const (
	deniedMessage  = "No tienes permiso para cambiar el estado de una incidencia."
	failedMessage  = "Error al guardar el cambio. Inténtalo de nuevo."
	invalidMessage = "Estado de destino no válido."
)

// NoticeFor maps a transition error to the notice the viewer must see.
// Success and not-found conditions have no notice.
func NoticeFor(err error) (Notice, bool) {
	switch {
	case err == nil:
		return Notice{}, false
	case errors.Is(err, ErrPermissionDenied):
		return Notice{Kind: NoticeDenied, Message: deniedMessage}, true
	case errors.Is(err, ErrPersistenceFailed):
		return Notice{Kind: NoticeFailed, Message: failedMessage}, true
	case errors.Is(err, ErrUnknownStatus):
		return Notice{Kind: NoticeInvalid, Message: invalidMessage}, true
	}
	return Notice{}, false
}
