package notifier

import "errors"

var (
	// ErrSendFailed возвращается, когда провайдер не принял сообщение
	ErrSendFailed = errors.New("notifier: send failed")

	// ErrNoRecipient возвращается, когда у клиента нет контакта для канала
	ErrNoRecipient = errors.New("notifier: no recipient for channel")

	// ErrClosed возвращается при работе с остановленным диспетчером
	ErrClosed = errors.New("notifier: dispatcher is closed")
)
