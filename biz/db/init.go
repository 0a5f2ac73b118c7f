package db

import (
	"docsmith/be/biz/db/mysql"
	"docsmith/be/biz/db/redis"
)

func Init() {
	mysql.Init()
	redis.Init()
}
