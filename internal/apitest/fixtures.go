package apitest

// Canned payloads shaped like real Desktop API responses.

const AccountsJSON = `[
  {
    "accountID": "whatsapp",
    "network": "WhatsApp",
    "user": {"id": "@me:beeper.local", "fullName": "Me", "isSelf": true}
  },
  {
    "accountID": "telegram",
    "network": "Telegram",
    "user": {"id": "tg-1", "username": "me_on_tg", "phoneNumber": "+15550100"}
  }
]`

const ChatJSON = `{
  "id": "!alice:beeper.local",
  "localChatID": "42",
  "accountID": "whatsapp",
  "network": "WhatsApp",
  "title": "Alice",
  "type": "single",
  "participants": {
    "items": [
      {"id": "@me:beeper.local", "fullName": "Me", "isSelf": true},
      {"id": "alice", "fullName": "Alice Liddell", "username": "alice"}
    ],
    "hasMore": false,
    "total": 2
  },
  "lastActivity": "2026-10-18T09:30:00.000Z",
  "unreadCount": 3,
  "lastReadMessageSortKey": "453400065536",
  "isArchived": false,
  "isMuted": false,
  "isPinned": true,
  "preview": {
    "id": "m-9",
    "chatID": "!alice:beeper.local",
    "senderID": "alice",
    "senderName": "Alice Liddell",
    "text": "see you tomorrow",
    "timestamp": "2026-10-18T09:30:00.000Z",
    "sortKey": "453400065536"
  }
}`

const ListChatsJSON = `{
  "items": [` + ChatJSON + `,
    {
      "id": "!group:beeper.local",
      "accountID": "telegram",
      "network": "Telegram",
      "title": "Book club",
      "type": "group",
      "participants": {"items": [{"id": "tg-1", "isSelf": true}], "hasMore": true, "total": 12},
      "unreadCount": 0,
      "lastReadMessageSortKey": 17,
      "isArchived": false,
      "isMuted": true,
      "isPinned": false
    }
  ],
  "hasMore": true,
  "oldestCursor": "c-old",
  "newestCursor": "c-new"
}`

const ListMessagesJSON = `{
  "items": [
    {
      "id": "m-2",
      "chatID": "!alice:beeper.local",
      "accountID": "whatsapp",
      "senderID": "@me:beeper.local",
      "text": "hello!",
      "timestamp": "2026-10-18T09:31:00Z",
      "sortKey": "1002",
      "isSender": true,
      "reactions": [
        {"id": "r-1", "reactionKey": "👍", "participantID": "alice", "emoji": true},
        {"id": "r-2", "reactionKey": "heart", "participantID": "bob"}
      ]
    },
    {
      "id": "m-1",
      "chatID": "!alice:beeper.local",
      "senderID": "alice",
      "senderName": "Alice Liddell",
      "timestamp": "2026-10-18T09:30:00Z",
      "sortKey": "1001",
      "attachments": [
        {"type": "img", "mimeType": "image/png", "fileName": "cat.png", "fileSize": 2048, "srcURL": "mxc://beeper.local/cat"}
      ]
    }
  ],
  "hasMore": true
}`

const SearchMessagesJSON = `{
  "items": [
    {
      "id": "m-1",
      "chatID": "!alice:beeper.local",
      "senderID": "alice",
      "text": "lunch tomorrow?",
      "timestamp": "2026-10-17T12:00:00Z",
      "sortKey": "900"
    }
  ],
  "chats": {"!alice:beeper.local": ` + ChatJSON + `},
  "hasMore": false,
  "oldestCursor": "s-old"
}`
