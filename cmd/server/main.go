package main

import (
	"flag"

	be "docsmith/be"
	"docsmith/be/biz/config"
	"docsmith/be/biz/db"
	"docsmith/be/biz/util/logger"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	confPath := flag.String("conf", "./conf/deploy.yml", "path to config file")
	addr := flag.String("addr", ":8888", "listen address")
	flag.Parse()

	config.Init(*confPath)
	logger.Init()
	db.Init()

	h := be.NewEngine(server.WithHostPorts(*addr))
	h.Spin()
}
