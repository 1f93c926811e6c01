package eventuals

import "errors"

// ErrClosed signals that no more values will ever arrive on a channel.
// It is sticky: once [Reader.Next] returns it, every subsequent call
// returns it as well.
var ErrClosed = errors.New("eventual closed")
