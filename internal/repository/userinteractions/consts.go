package userinteractions

import "time"

const (
	// collection name
	userInteractionsNode string = "userInteractions"

	// It must not exceed the write timeout of the database.firestore.notifyOnChanges
	channelWriteTimeout time.Duration = time.Second * 3
)
